package taskstore_test

import (
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	"github.com/taskhive/taskhive/internal/domain/models"
	"github.com/taskhive/taskhive/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Task{
		Title:     "Write docs",
		Project:   primitive.NewObjectID(),
		CreatedBy: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.TaskTodo {
		t.Errorf("Status: got %q, want %q", created.Status, models.TaskTodo)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("Priority: got %q, want %q", created.Priority, models.PriorityMedium)
	}
	if created.TitleCI != text.Fold("Write docs") {
		t.Errorf("TitleCI: got %q, want folded title", created.TitleCI)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != taskstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListByProject_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	creator := primitive.NewObjectID()

	fixtures.CreateTask(ctx, "First", projectID, creator)
	// Stored timestamps have millisecond precision; space the inserts
	// out so the sort order is deterministic.
	time.Sleep(2 * time.Millisecond)
	fixtures.CreateTask(ctx, "Second", projectID, creator)
	fixtures.CreateTask(ctx, "Elsewhere", primitive.NewObjectID(), creator)

	tasks, err := store.ListByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Second" || tasks[1].Title != "First" {
		t.Errorf("unexpected order: %q, %q", tasks[0].Title, tasks[1].Title)
	}
}

func TestStore_ListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	other := primitive.NewObjectID()
	projectID := primitive.NewObjectID()

	fixtures.CreateTask(ctx, "Created", projectID, user)

	assigned := fixtures.CreateTask(ctx, "Assigned", projectID, other)
	_, err := db.Collection("tasks").UpdateByID(ctx, assigned.ID,
		map[string]any{"$set": map[string]any{"assigned_to": user}})
	if err != nil {
		t.Fatalf("failed to assign task: %v", err)
	}

	fixtures.CreateTask(ctx, "Unrelated", projectID, other)

	tasks, err := store.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Title == "Unrelated" {
			t.Error("Unrelated task should not be listed")
		}
	}
}

func TestStore_Replace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Old Title", primitive.NewObjectID(), primitive.NewObjectID())

	task.Title = "New Title"
	task.ApplyStatus(models.TaskDone, time.Now())
	if err := store.Replace(ctx, task); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	found, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Title != "New Title" {
		t.Errorf("Title: got %q, want %q", found.Title, "New Title")
	}
	if found.TitleCI != text.Fold("New Title") {
		t.Errorf("TitleCI: got %q, want folded title", found.TitleCI)
	}
	if found.Status != models.TaskDone || found.CompletedAt == nil {
		t.Errorf("expected done task with CompletedAt set, got %q / %v", found.Status, found.CompletedAt)
	}

	ghost := task
	ghost.ID = primitive.NewObjectID()
	if err := store.Replace(ctx, ghost); err != taskstore.ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestStore_AddActualHours(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Tracked", primitive.NewObjectID(), primitive.NewObjectID())

	if err := store.AddActualHours(ctx, task.ID, 1.5); err != nil {
		t.Fatalf("AddActualHours failed: %v", err)
	}
	if err := store.AddActualHours(ctx, task.ID, 2.0); err != nil {
		t.Fatalf("second AddActualHours failed: %v", err)
	}

	found, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.ActualHours != 3.5 {
		t.Errorf("ActualHours: got %v, want %v", found.ActualHours, 3.5)
	}

	if err := store.AddActualHours(ctx, primitive.NewObjectID(), 1); err != taskstore.ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Doomed", primitive.NewObjectID(), primitive.NewObjectID())

	count, err := store.Delete(ctx, task.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 deleted, got %d", count)
	}

	if _, err := store.GetByID(ctx, task.ID); err != taskstore.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
