package projectstore_test

import (
	"testing"

	"github.com/dalemusser/waffle/pantry/text"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	"github.com/taskhive/taskhive/internal/domain/models"
	"github.com/taskhive/taskhive/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Project{
		Name:  "Rollout",
		Team:  primitive.NewObjectID(),
		Owner: owner,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.ProjectPlanned {
		t.Errorf("Status: got %q, want %q", created.Status, models.ProjectPlanned)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("Priority: got %q, want %q", created.Priority, models.PriorityMedium)
	}
	if !created.HasMember(owner) {
		t.Error("expected owner to be seeded into members")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != projectstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	other := primitive.NewObjectID()
	teamID := primitive.NewObjectID()

	fixtures.CreateProject(ctx, "Owned", teamID, user)
	fixtures.CreateProject(ctx, "Shared", teamID, other, user)
	fixtures.CreateProject(ctx, "Hidden", teamID, other)

	projects, err := store.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	for _, p := range projects {
		if p.Name == "Hidden" {
			t.Error("Hidden project should not be listed")
		}
	}
}

func TestStore_ListForTeams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	teamA := primitive.NewObjectID()
	teamB := primitive.NewObjectID()

	fixtures.CreateProject(ctx, "In A", teamA, owner)
	fixtures.CreateProject(ctx, "In B", teamB, owner)

	projects, err := store.ListForTeams(ctx, []primitive.ObjectID{teamA})
	if err != nil {
		t.Fatalf("ListForTeams failed: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "In A" {
		t.Errorf("unexpected projects: %v", projects)
	}

	// No teams means no projects, not all of them.
	projects, err = store.ListForTeams(ctx, nil)
	if err != nil {
		t.Fatalf("ListForTeams with no teams failed: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("expected empty result, got %d projects", len(projects))
	}
}

func TestStore_UpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Old Name", primitive.NewObjectID(), primitive.NewObjectID())

	err := store.UpdateFields(ctx, project.ID, bson.M{
		"name":   "New Name",
		"status": models.ProjectCompleted,
	})
	if err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}

	found, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Name != "New Name" {
		t.Errorf("Name: got %q, want %q", found.Name, "New Name")
	}
	if found.NameCI != text.Fold("New Name") {
		t.Errorf("NameCI: got %q, want folded name", found.NameCI)
	}
	if found.Status != models.ProjectCompleted {
		t.Errorf("Status: got %q, want %q", found.Status, models.ProjectCompleted)
	}

	err = store.UpdateFields(ctx, primitive.NewObjectID(), bson.M{"name": "Ghost"})
	if err != projectstore.ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestStore_SetMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	extra := primitive.NewObjectID()
	project := fixtures.CreateProject(ctx, "Crewed", primitive.NewObjectID(), owner, owner)

	if err := store.SetMembers(ctx, project.ID, []primitive.ObjectID{owner, extra}); err != nil {
		t.Fatalf("SetMembers failed: %v", err)
	}

	found, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(found.Members) != 2 || !found.HasMember(extra) {
		t.Errorf("unexpected members: %v", found.Members)
	}
}

func TestStore_AddSpent_Accumulates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Budgeted", primitive.NewObjectID(), primitive.NewObjectID())

	if err := store.AddSpent(ctx, project.ID, 100.5); err != nil {
		t.Fatalf("AddSpent failed: %v", err)
	}
	if err := store.AddSpent(ctx, project.ID, 49.5); err != nil {
		t.Fatalf("second AddSpent failed: %v", err)
	}

	found, err := store.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Spent != 150 {
		t.Errorf("Spent: got %v, want %v", found.Spent, 150.0)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	project := fixtures.CreateProject(ctx, "Doomed", primitive.NewObjectID(), primitive.NewObjectID())

	count, err := store.Delete(ctx, project.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 deleted, got %d", count)
	}

	if _, err := store.GetByID(ctx, project.ID); err != projectstore.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
