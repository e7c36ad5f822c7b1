package timeentries_test

import (
	"testing"

	"github.com/taskhive/taskhive/internal/app/features/timeentries"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	"github.com/taskhive/taskhive/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*timeentries.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return timeentries.NewHandler(db, zap.NewNop(), nil), db
}

func TestHandleLogTime_AccruesTaskHours(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	task := fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	req := testutil.NewAuthedJSONRequest(t, "POST", "/api/timeentries", owner, map[string]any{
		"taskId":      task.ID.Hex(),
		"hours":       2.5,
		"description": "drafting",
	})
	rec := testutil.NewRecorder()
	handler.HandleLogTime(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 201)
	body := rec.DecodeJSON(t)
	entry, _ := body["timeEntry"].(map[string]any)
	if entry == nil {
		t.Fatal("expected timeEntry in response")
	}
	if entry["hours"] != 2.5 {
		t.Errorf("expected 2.5 hours recorded, got %v", entry["hours"])
	}
	if entry["user"] != owner.ID.Hex() {
		t.Errorf("expected entry attributed to caller, got %v", entry["user"])
	}

	got, err := taskstore.New(db).GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if got.ActualHours != 2.5 {
		t.Errorf("expected task actual hours 2.5, got %v", got.ActualHours)
	}
}

func TestHandleLogTime_RejectsNonPositiveHours(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	task := fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	for _, hours := range []float64{0, -1} {
		req := testutil.NewAuthedJSONRequest(t, "POST", "/api/timeentries", owner, map[string]any{
			"taskId": task.ID.Hex(),
			"hours":  hours,
		})
		rec := testutil.NewRecorder()
		handler.HandleLogTime(rec.ResponseRecorder, req)

		rec.AssertStatus(t, 400)
		rec.AssertMessage(t, "Hours must be greater than zero")
	}
}

func TestHandleLogTime_OutsiderDenied(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	outsider := fx.CreateMember(ctx, "Outsider", "outsider@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	task := fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	req := testutil.NewAuthedJSONRequest(t, "POST", "/api/timeentries", outsider, map[string]any{
		"taskId": task.ID.Hex(),
		"hours":  1.0,
	})
	rec := testutil.NewRecorder()
	handler.HandleLogTime(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 403)
	rec.AssertMessage(t, "Access denied to this task")
}

func TestServeTaskEntries_TotalsHours(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateMember(ctx, "Owner", "owner@example.com")
	team := fx.CreateTeam(ctx, "Squad", owner.ID)
	project := fx.CreateProject(ctx, "Launch", team.ID, owner.ID)
	task := fx.CreateTask(ctx, "Write docs", project.ID, owner.ID)

	for _, hours := range []float64{1.5, 2.0} {
		req := testutil.NewAuthedJSONRequest(t, "POST", "/api/timeentries", owner, map[string]any{
			"taskId": task.ID.Hex(),
			"hours":  hours,
		})
		rec := testutil.NewRecorder()
		handler.HandleLogTime(rec.ResponseRecorder, req)
		rec.AssertStatus(t, 201)
	}

	req := testutil.NewAuthedRequest("GET", "/api/timeentries/task/"+task.ID.Hex(), owner)
	req = testutil.WithChiURLParam(req, "taskID", task.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeTaskEntries(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	body := rec.DecodeJSON(t)
	list, _ := body["timeEntries"].([]any)
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if body["totalHours"] != 3.5 {
		t.Errorf("expected totalHours 3.5, got %v", body["totalHours"])
	}
}
