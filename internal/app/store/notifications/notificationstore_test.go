package notificationstore_test

import (
	"testing"
	"time"

	notificationstore "github.com/taskhive/taskhive/internal/app/store/notifications"
	"github.com/taskhive/taskhive/internal/domain/models"
	"github.com/taskhive/taskhive/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_AlwaysUnread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Notification{
		Recipient: primitive.NewObjectID(),
		Type:      models.NotifyTaskAssigned,
		Message:   "You have been assigned a task",
		IsRead:    true, // ignored
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.IsRead {
		t.Error("new notifications must start unread")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_ListForRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	other := primitive.NewObjectID()

	first := fixtures.CreateNotification(ctx, recipient, "first")
	// Stored timestamps have millisecond precision; space the inserts
	// out so the sort order is deterministic.
	time.Sleep(2 * time.Millisecond)
	fixtures.CreateNotification(ctx, recipient, "second")
	fixtures.CreateNotification(ctx, other, "not yours")

	all, err := store.ListForRecipient(ctx, recipient, false, 0)
	if err != nil {
		t.Fatalf("ListForRecipient failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(all))
	}
	if all[0].Message != "second" || all[1].Message != "first" {
		t.Errorf("unexpected order: %q, %q", all[0].Message, all[1].Message)
	}

	// Unread filter hides the one we mark.
	if err := store.MarkRead(ctx, first.ID, recipient); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	unread, err := store.ListForRecipient(ctx, recipient, true, 0)
	if err != nil {
		t.Fatalf("ListForRecipient unread failed: %v", err)
	}
	if len(unread) != 1 || unread[0].Message != "second" {
		t.Errorf("unexpected unread list: %v", unread)
	}

	// Limit caps the result.
	limited, err := store.ListForRecipient(ctx, recipient, false, 1)
	if err != nil {
		t.Fatalf("ListForRecipient limited failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 notification, got %d", len(limited))
	}
}

func TestStore_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	n := fixtures.CreateNotification(ctx, recipient, "read me")

	if err := store.MarkRead(ctx, n.ID, recipient); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	all, err := store.ListForRecipient(ctx, recipient, false, 0)
	if err != nil {
		t.Fatalf("ListForRecipient failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(all))
	}
	if !all[0].IsRead || all[0].ReadAt == nil {
		t.Error("expected notification to be read with ReadAt set")
	}
}

func TestStore_MarkRead_WrongRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	n := fixtures.CreateNotification(ctx, recipient, "mine")

	err := store.MarkRead(ctx, n.ID, intruder)
	if err != notificationstore.ErrNotFound {
		t.Errorf("expected ErrNotFound for wrong recipient, got %v", err)
	}

	unread, err := store.ListForRecipient(ctx, recipient, true, 0)
	if err != nil {
		t.Fatalf("ListForRecipient failed: %v", err)
	}
	if len(unread) != 1 {
		t.Error("notification should still be unread")
	}
}

func TestStore_MarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient := primitive.NewObjectID()
	other := primitive.NewObjectID()

	fixtures.CreateNotification(ctx, recipient, "one")
	fixtures.CreateNotification(ctx, recipient, "two")
	fixtures.CreateNotification(ctx, other, "untouched")

	updated, err := store.MarkAllRead(ctx, recipient)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("expected 2 updated, got %d", updated)
	}

	unread, err := store.ListForRecipient(ctx, recipient, true, 0)
	if err != nil {
		t.Fatalf("ListForRecipient failed: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected no unread notifications, got %d", len(unread))
	}

	otherUnread, err := store.ListForRecipient(ctx, other, true, 0)
	if err != nil {
		t.Fatalf("ListForRecipient for other failed: %v", err)
	}
	if len(otherUnread) != 1 {
		t.Error("other recipient's notification should be untouched")
	}
}
