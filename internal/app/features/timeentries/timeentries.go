// internal/app/features/timeentries/timeentries.go
package timeentries

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/policy/taskpolicy"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadAccessibleTask fetches the task and applies the task access
// check, writing the error response itself when anything fails.
func (h *Handler) loadAccessibleTask(ctx context.Context, w http.ResponseWriter, u *auth.Principal, idHex string) (models.Task, bool) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid task id")
		return models.Task{}, false
	}
	task, err := h.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Task not found")
			return models.Task{}, false
		}
		h.Log.Error("timeentries: task load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load task")
		return models.Task{}, false
	}
	project, _ := h.projects.GetByID(ctx, task.Project)
	if d := taskpolicy.CanAccess(u, task, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return models.Task{}, false
	}
	return task, true
}

type logTimeRequest struct {
	TaskID      string     `json:"taskId"`
	Hours       float64    `json:"hours"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
}

// HandleLogTime handles POST /api/timeentries. The entry insert and
// the task's actual_hours increment are two separate writes; a crash
// in between leaves the counter behind the entries, which the
// aggregate total can repair.
func (h *Handler) HandleLogTime(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req logTimeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Hours <= 0 {
		httpjson.Error(w, http.StatusBadRequest, "Hours must be greater than zero")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "log time")
	defer cancel()

	task, ok := h.loadAccessibleTask(ctx, w, u, req.TaskID)
	if !ok {
		return
	}

	entry := models.TimeEntry{
		Task:        task.ID,
		User:        u.ID,
		Hours:       req.Hours,
		Description: htmlsanitize.Strip(req.Description),
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}

	entry, err := h.entries.Create(ctx, entry)
	if err != nil {
		h.Log.Error("timeentries: create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not log time")
		return
	}

	if err := h.tasks.AddActualHours(ctx, task.ID, entry.Hours); err != nil {
		h.Log.Warn("timeentries: actual hours increment failed",
			zap.String("task", task.ID.Hex()), zap.Error(err))
	}

	h.Fanout.TimeLogged(ctx, entry, task.Title)

	httpjson.OK(w, http.StatusCreated, map[string]any{"timeEntry": entry})
}

// ServeTaskEntries handles GET /api/timeentries/task/{taskID},
// returning the task's entries newest first plus the aggregate total.
func (h *Handler) ServeTaskEntries(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list time entries")
	defer cancel()

	task, ok := h.loadAccessibleTask(ctx, w, u, chi.URLParam(r, "taskID"))
	if !ok {
		return
	}

	entries, err := h.entries.ListForTask(ctx, task.ID)
	if err != nil {
		h.Log.Error("timeentries: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list time entries")
		return
	}
	total, err := h.entries.TotalForTask(ctx, task.ID)
	if err != nil {
		h.Log.Error("timeentries: total failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list time entries")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{
		"timeEntries": entries,
		"totalHours":  total,
	})
}
