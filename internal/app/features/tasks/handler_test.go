package tasks_test

import (
	"testing"

	"github.com/taskhive/taskhive/internal/app/features/tasks"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	"github.com/taskhive/taskhive/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*tasks.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return tasks.NewHandler(db, zap.NewNop(), nil), db
}

func TestHandleCreateTask(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	assignee := fx.CreateMember(ctx, "Assignee", "assignee@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID, assignee.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)

	req := testutil.NewAuthedJSONRequest(t, "POST", "/api/tasks", owner, map[string]any{
		"title":      "Write docs",
		"project":    project.ID.Hex(),
		"assignedTo": assignee.ID.Hex(),
		"priority":   "high",
	})
	rec := testutil.NewRecorder()
	handler.HandleCreateTask(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 201)
	body := rec.DecodeJSON(t)
	task, _ := body["task"].(map[string]any)
	if task == nil {
		t.Fatal("expected task in response")
	}
	if task["status"] != "todo" {
		t.Errorf("expected default status todo, got %v", task["status"])
	}
	if task["assignedTo"] != assignee.ID.Hex() {
		t.Errorf("expected assignee set, got %v", task["assignedTo"])
	}
	if task["createdBy"] != owner.ID.Hex() {
		t.Errorf("expected creator recorded, got %v", task["createdBy"])
	}
}

func TestHandleCreateTask_UnknownAssignee(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	ghost := fx.CreateDeactivatedUser(ctx, "Ghost", "ghost@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)

	req := testutil.NewAuthedJSONRequest(t, "POST", "/api/tasks", owner, map[string]any{
		"title":      "Write docs",
		"project":    project.ID.Hex(),
		"assignedTo": ghost.ID.Hex(),
	})
	rec := testutil.NewRecorder()
	handler.HandleCreateTask(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 404)
	rec.AssertMessage(t, "Assignee not found")
}

func TestHandleCreateTask_OutsiderDenied(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	outsider := fx.CreateMember(ctx, "Outsider", "outsider@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)

	req := testutil.NewAuthedJSONRequest(t, "POST", "/api/tasks", outsider, map[string]any{
		"title":   "Write docs",
		"project": project.ID.Hex(),
	})
	rec := testutil.NewRecorder()
	handler.HandleCreateTask(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 403)
	rec.AssertMessage(t, "Access denied to this project")
}

func TestServeTaskList_ProjectFilterGated(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	outsider := fx.CreateMember(ctx, "Outsider", "outsider@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	req := testutil.NewAuthedRequest("GET", "/api/tasks?project="+project.ID.Hex(), outsider)
	rec := testutil.NewRecorder()
	handler.ServeTaskList(rec.ResponseRecorder, req)
	rec.AssertStatus(t, 403)

	req = testutil.NewAuthedRequest("GET", "/api/tasks?project="+project.ID.Hex(), owner)
	rec = testutil.NewRecorder()
	handler.ServeTaskList(rec.ResponseRecorder, req)
	rec.AssertStatus(t, 200)
	body := rec.DecodeJSON(t)
	list, _ := body["tasks"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected 1 task, got %d", len(list))
	}
}

func TestHandleUpdateTask_StatusRoundTripTogglesCompletedAt(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	task := fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	req := testutil.NewAuthedJSONRequest(t, "PUT", "/api/tasks/"+task.ID.Hex(), owner, map[string]any{
		"status": "done",
	})
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleUpdateTask(rec.ResponseRecorder, req)
	rec.AssertStatus(t, 200)

	store := taskstore.New(db)
	got, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if got.Status != "done" {
		t.Fatalf("expected status done, got %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("expected completedAt set when task moves to done")
	}

	// Reopening clears the completion timestamp.
	req = testutil.NewAuthedJSONRequest(t, "PUT", "/api/tasks/"+task.ID.Hex(), owner, map[string]any{
		"status": "todo",
	})
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec = testutil.NewRecorder()
	handler.HandleUpdateTask(rec.ResponseRecorder, req)
	rec.AssertStatus(t, 200)

	got, err = store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if got.CompletedAt != nil {
		t.Error("expected completedAt cleared when task is reopened")
	}
}

func TestHandleUpdateTask_ClearAssignee(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	assignee := fx.CreateMember(ctx, "Assignee", "assignee@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID, assignee.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	task := fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	req := testutil.NewAuthedJSONRequest(t, "PUT", "/api/tasks/"+task.ID.Hex(), owner, map[string]any{
		"assignedTo": assignee.ID.Hex(),
	})
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleUpdateTask(rec.ResponseRecorder, req)
	rec.AssertStatus(t, 200)

	store := taskstore.New(db)
	got, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if got.AssignedTo == nil || *got.AssignedTo != assignee.ID {
		t.Fatal("expected assignee set")
	}

	// Empty string unassigns.
	req = testutil.NewAuthedJSONRequest(t, "PUT", "/api/tasks/"+task.ID.Hex(), owner, map[string]any{
		"assignedTo": "",
	})
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec = testutil.NewRecorder()
	handler.HandleUpdateTask(rec.ResponseRecorder, req)
	rec.AssertStatus(t, 200)

	got, err = store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if got.AssignedTo != nil {
		t.Error("expected assignee cleared")
	}
}

func TestServeTaskView_OutsiderDenied(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	outsider := fx.CreateMember(ctx, "Outsider", "outsider@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	task := fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	req := testutil.NewAuthedRequest("GET", "/api/tasks/"+task.ID.Hex(), outsider)
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeTaskView(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 403)
	rec.AssertMessage(t, "Access denied to this task")
}

func TestHandleDeleteTask(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	task := fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	req := testutil.NewAuthedRequest("DELETE", "/api/tasks/"+task.ID.Hex(), owner)
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleDeleteTask(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertMessage(t, "Task deleted")

	if _, err := taskstore.New(db).GetByID(ctx, task.ID); err != taskstore.ErrNotFound {
		t.Fatalf("expected task gone, got %v", err)
	}
}
