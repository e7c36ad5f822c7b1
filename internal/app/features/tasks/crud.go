// internal/app/features/tasks/crud.go
package tasks

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/policy/projectpolicy"
	"github.com/taskhive/taskhive/internal/app/policy/taskpolicy"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/inputval"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadTask resolves {id} and fetches the task, writing the error
// response itself when anything fails.
func (h *Handler) loadTask(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Task, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
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
		h.Log.Error("tasks: load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load task")
		return models.Task{}, false
	}
	return task, true
}

// enclosingProject fetches the task's project for access checks. A
// deleted project yields the zero Project, so project-based grants stop
// matching and only the assignee, the creator, or an admin can still
// reach the task.
func (h *Handler) enclosingProject(ctx context.Context, task models.Task) models.Project {
	project, err := h.projects.GetByID(ctx, task.Project)
	if err != nil {
		if !errors.Is(err, projectstore.ErrNotFound) {
			h.Log.Warn("tasks: enclosing project lookup failed",
				zap.String("task", task.ID.Hex()), zap.Error(err))
		}
		return models.Project{}
	}
	return project
}

// ServeTaskList handles GET /api/tasks. With ?project= the list is the
// project's tasks, gated on project visibility. Without it, admins see
// everything they ask for via the filter anyway, so the unfiltered list
// is scoped to tasks the caller created or is assigned to.
func (h *Handler) ServeTaskList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list tasks")
	defer cancel()

	if hex := query.Get(r, "project"); hex != "" {
		projectID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid project id")
			return
		}
		project, err := h.projects.GetByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, projectstore.ErrNotFound) {
				httpjson.Error(w, http.StatusNotFound, "Project not found")
				return
			}
			h.Log.Error("tasks: project lookup failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not list tasks")
			return
		}
		team := h.owningTeam(ctx, project)
		if d := projectpolicy.CanView(u, project, team); !d.Allowed {
			httpjson.Error(w, http.StatusForbidden, d.Reason)
			return
		}
		tasks, err := h.tasks.ListByProject(ctx, projectID)
		if err != nil {
			h.Log.Error("tasks: list by project failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not list tasks")
			return
		}
		httpjson.OK(w, http.StatusOK, map[string]any{"tasks": tasks})
		return
	}

	tasks, err := h.tasks.ListForUser(ctx, u.ID)
	if err != nil {
		h.Log.Error("tasks: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list tasks")
		return
	}
	httpjson.OK(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type createTaskRequest struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Project        string           `json:"project"`
	AssignedTo     string           `json:"assignedTo"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	DueDate        *time.Time       `json:"dueDate"`
	Subtasks       []models.Subtask `json:"subtasks"`
	Dependencies   []string         `json:"dependencies"`
	EstimatedHours float64          `json:"estimatedHours"`
}

// HandleCreateTask handles POST /api/tasks. The creator must be able to
// view the target project. Dependencies are stored as given; they are
// advisory and never checked against the referenced tasks' statuses.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req createTaskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	title, ok := inputval.TrimmedNonEmpty(htmlsanitize.Strip(req.Title))
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "Task title is required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.Project)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "A valid project id is required")
		return
	}
	if req.Status != "" && !models.ValidTaskStatus(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid task status")
		return
	}
	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	var assignee *primitive.ObjectID
	if req.AssignedTo != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid assignee id")
			return
		}
		assignee = &id
	}
	deps := make([]primitive.ObjectID, 0, len(req.Dependencies))
	for _, hex := range req.Dependencies {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid dependency id")
			return
		}
		deps = append(deps, id)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create task")
	defer cancel()

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Project not found")
			return
		}
		h.Log.Error("tasks: project lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create task")
		return
	}
	team := h.owningTeam(ctx, project)
	if d := projectpolicy.CanView(u, project, team); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	if assignee != nil {
		active, err := h.users.ExistsActive(ctx, *assignee)
		if err != nil {
			h.Log.Error("tasks: assignee lookup failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not create task")
			return
		}
		if !active {
			httpjson.Error(w, http.StatusNotFound, "Assignee not found")
			return
		}
	}

	task := models.Task{
		Title:          title,
		Description:    htmlsanitize.Strip(req.Description),
		Project:        projectID,
		AssignedTo:     assignee,
		CreatedBy:      u.ID,
		Status:         req.Status,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		Subtasks:       sanitizeSubtasks(req.Subtasks),
		Dependencies:   deps,
		EstimatedHours: req.EstimatedHours,
	}
	if task.Status == models.TaskDone {
		task.ApplyStatus(models.TaskDone, time.Now())
	}

	task, err = h.tasks.Create(ctx, task)
	if err != nil {
		h.Log.Error("tasks: create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create task")
		return
	}

	h.Fanout.TaskCreated(ctx, u.ID, task)

	httpjson.OK(w, http.StatusCreated, map[string]any{"task": task})
}

// ServeTaskView handles GET /api/tasks/{id}.
func (h *Handler) ServeTaskView(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view task")
	defer cancel()

	task, ok := h.loadTask(ctx, w, r)
	if !ok {
		return
	}
	project := h.enclosingProject(ctx, task)
	if d := taskpolicy.CanAccess(u, task, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"task": task})
}

type updateTaskRequest struct {
	Title          *string           `json:"title"`
	Description    *string           `json:"description"`
	AssignedTo     *string           `json:"assignedTo"`
	Status         *string           `json:"status"`
	Priority       *string           `json:"priority"`
	DueDate        *time.Time        `json:"dueDate"`
	Subtasks       *[]models.Subtask `json:"subtasks"`
	Dependencies   *[]string         `json:"dependencies"`
	EstimatedHours *float64          `json:"estimatedHours"`
}

// HandleUpdateTask handles PUT /api/tasks/{id}. Anyone with task access
// may update. Status changes go through ApplyStatus so the completion
// stamp stays in step; an assignee change notifies the new assignee.
// assignedTo: "" clears the assignment.
func (h *Handler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req updateTaskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update task")
	defer cancel()

	task, ok := h.loadTask(ctx, w, r)
	if !ok {
		return
	}
	project := h.enclosingProject(ctx, task)
	if d := taskpolicy.CanAccess(u, task, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	changes := map[string]string{}
	oldStatus := task.Status
	statusChanged := false
	var newAssignee *primitive.ObjectID

	if req.Title != nil {
		title, ok := inputval.TrimmedNonEmpty(htmlsanitize.Strip(*req.Title))
		if !ok {
			httpjson.Error(w, http.StatusBadRequest, "Task title cannot be empty")
			return
		}
		task.Title = title
		changes["title"] = title
	}
	if req.Description != nil {
		task.Description = htmlsanitize.Strip(*req.Description)
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid task status")
			return
		}
		statusChanged = *req.Status != task.Status
		task.ApplyStatus(*req.Status, time.Now())
		changes["status"] = *req.Status
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid priority")
			return
		}
		task.Priority = *req.Priority
		changes["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Subtasks != nil {
		task.Subtasks = sanitizeSubtasks(*req.Subtasks)
	}
	if req.Dependencies != nil {
		deps := make([]primitive.ObjectID, 0, len(*req.Dependencies))
		for _, hex := range *req.Dependencies {
			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				httpjson.Error(w, http.StatusBadRequest, "Invalid dependency id")
				return
			}
			deps = append(deps, id)
		}
		task.Dependencies = deps
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			task.AssignedTo = nil
		} else {
			id, err := primitive.ObjectIDFromHex(*req.AssignedTo)
			if err != nil {
				httpjson.Error(w, http.StatusBadRequest, "Invalid assignee id")
				return
			}
			active, err := h.users.ExistsActive(ctx, id)
			if err != nil {
				h.Log.Error("tasks: assignee lookup failed", zap.Error(err))
				httpjson.Error(w, http.StatusInternalServerError, "Could not update task")
				return
			}
			if !active {
				httpjson.Error(w, http.StatusNotFound, "Assignee not found")
				return
			}
			if task.AssignedTo == nil || *task.AssignedTo != id {
				newAssignee = &id
			}
			task.AssignedTo = &id
		}
	}

	if err := h.tasks.Replace(ctx, task); err != nil {
		h.Log.Error("tasks: update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update task")
		return
	}

	switch {
	case statusChanged:
		h.Fanout.TaskStatusChanged(ctx, u.ID, task, oldStatus)
	case len(changes) > 0:
		h.Fanout.TaskUpdated(ctx, u.ID, task, changes)
	}
	if newAssignee != nil {
		h.Fanout.TaskAssigned(ctx, u.ID, task, *newAssignee)
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"task": task})
}

// HandleDeleteTask handles DELETE /api/tasks/{id}. Same access check as
// reads. The task is hard-deleted; its comments, files, and time
// entries stay behind with dangling references.
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete task")
	defer cancel()

	task, ok := h.loadTask(ctx, w, r)
	if !ok {
		return
	}
	project := h.enclosingProject(ctx, task)
	if d := taskpolicy.CanAccess(u, task, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	if _, err := h.tasks.Delete(ctx, task.ID); err != nil {
		h.Log.Error("tasks: delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete task")
		return
	}

	h.Fanout.TaskDeleted(ctx, u.ID, task)

	httpjson.OK(w, http.StatusOK, map[string]any{"message": "Task deleted"})
}

// owningTeam fetches a project's team for visibility checks, tolerating
// a deleted team the same way the projects feature does.
func (h *Handler) owningTeam(ctx context.Context, project models.Project) models.Team {
	team, err := h.teams.GetByID(ctx, project.Team)
	if err != nil {
		if !errors.Is(err, teamstore.ErrNotFound) {
			h.Log.Warn("tasks: owning team lookup failed",
				zap.String("project", project.ID.Hex()), zap.Error(err))
		}
		return models.Team{}
	}
	return team
}

func sanitizeSubtasks(subtasks []models.Subtask) []models.Subtask {
	out := make([]models.Subtask, 0, len(subtasks))
	for _, st := range subtasks {
		st.Title = htmlsanitize.Strip(st.Title)
		out = append(out, st)
	}
	return out
}
