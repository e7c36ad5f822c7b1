package timeentrystore_test

import (
	"testing"
	"time"

	timeentrystore "github.com/taskhive/taskhive/internal/app/store/timeentries"
	"github.com/taskhive/taskhive/internal/domain/models"
	"github.com/taskhive/taskhive/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_DefaultsDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := timeentrystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.TimeEntry{
		Task:  primitive.NewObjectID(),
		User:  primitive.NewObjectID(),
		Hours: 2.5,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Date.IsZero() {
		t.Error("expected Date to default to now")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_KeepsPresetDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := timeentrystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	when := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	created, err := store.Create(ctx, models.TimeEntry{
		Task:  primitive.NewObjectID(),
		User:  primitive.NewObjectID(),
		Hours: 1,
		Date:  when,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created.Date.Equal(when) {
		t.Errorf("Date: got %v, want %v", created.Date, when)
	}
}

func TestStore_ListForTask_NewestDateFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := timeentrystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	taskID := primitive.NewObjectID()
	user := primitive.NewObjectID()

	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	if _, err := store.Create(ctx, models.TimeEntry{Task: taskID, User: user, Hours: 1, Date: older}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.TimeEntry{Task: taskID, User: user, Hours: 2, Date: newer}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.TimeEntry{Task: primitive.NewObjectID(), User: user, Hours: 9}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entries, err := store.ListForTask(ctx, taskID)
	if err != nil {
		t.Fatalf("ListForTask failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Hours != 2 || entries[1].Hours != 1 {
		t.Errorf("unexpected order: %v, %v", entries[0].Hours, entries[1].Hours)
	}
}

func TestStore_TotalForTask(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := timeentrystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	taskID := primitive.NewObjectID()
	user := primitive.NewObjectID()

	for _, hours := range []float64{1.5, 2.0, 0.5} {
		if _, err := store.Create(ctx, models.TimeEntry{Task: taskID, User: user, Hours: hours}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	total, err := store.TotalForTask(ctx, taskID)
	if err != nil {
		t.Fatalf("TotalForTask failed: %v", err)
	}
	if total != 4 {
		t.Errorf("total: got %v, want %v", total, 4.0)
	}
}

func TestStore_TotalForTask_NoEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := timeentrystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	total, err := store.TotalForTask(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("TotalForTask failed: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0 for empty task, got %v", total)
	}
}
