// internal/app/features/projects/crud.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/policy/projectpolicy"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/inputval"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadProject resolves {id} and fetches the project, writing the
// error response itself when anything fails.
func (h *Handler) loadProject(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Project, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid project id")
		return models.Project{}, false
	}
	project, err := h.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Project not found")
			return models.Project{}, false
		}
		h.Log.Error("projects: load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load project")
		return models.Project{}, false
	}
	return project, true
}

// owningTeam fetches the project's team for visibility checks. A
// deleted team yields the zero Team, so team-based grants simply stop
// matching instead of failing the request.
func (h *Handler) owningTeam(ctx context.Context, project models.Project) models.Team {
	team, err := h.teams.GetByID(ctx, project.Team)
	if err != nil {
		if !errors.Is(err, teamstore.ErrNotFound) {
			h.Log.Warn("projects: owning team lookup failed",
				zap.String("project", project.ID.Hex()), zap.Error(err))
		}
		return models.Team{}
	}
	return team
}

// ServeProjectList handles GET /api/projects. Admins see everything;
// other users see projects they own, belong to, or can reach through
// team membership.
func (h *Handler) ServeProjectList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list projects")
	defer cancel()

	if authz.IsAdmin(r) {
		projects, err := h.projects.ListAll(ctx)
		if err != nil {
			h.Log.Error("projects: list failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not list projects")
			return
		}
		httpjson.OK(w, http.StatusOK, map[string]any{"projects": projects})
		return
	}

	direct, err := h.projects.ListForUser(ctx, u.ID)
	if err != nil {
		h.Log.Error("projects: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list projects")
		return
	}

	teams, err := h.teams.ListForUser(ctx, u.ID)
	if err != nil {
		h.Log.Error("projects: team list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list projects")
		return
	}
	teamIDs := make([]primitive.ObjectID, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}
	viaTeams, err := h.projects.ListForTeams(ctx, teamIDs)
	if err != nil {
		h.Log.Error("projects: team-scoped list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list projects")
		return
	}

	seen := make(map[primitive.ObjectID]struct{}, len(direct))
	projects := direct
	for _, p := range direct {
		seen[p.ID] = struct{}{}
	}
	for _, p := range viaTeams {
		if _, dup := seen[p.ID]; !dup {
			projects = append(projects, p)
		}
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"projects": projects})
}

type createProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Team        string     `json:"team"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	TotalBudget float64    `json:"totalBudget"`
	Members     []string   `json:"members"`
}

// HandleCreateProject handles POST /api/projects. The creator must be
// the owner or a member of the target team. After the insert the
// project id is pushed onto team.projects as a separate write; the
// two writes are not atomic, and a crash in between leaves a project
// the team document does not list.
func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req createProjectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name, ok := inputval.TrimmedNonEmpty(htmlsanitize.Strip(req.Name))
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "Project name is required")
		return
	}
	teamID, err := primitive.ObjectIDFromHex(req.Team)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "A valid team id is required")
		return
	}
	if req.Status != "" && !models.ValidProjectStatus(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid project status")
		return
	}
	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	members := make([]primitive.ObjectID, 0, len(req.Members))
	for _, hex := range req.Members {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid member id")
			return
		}
		members = append(members, id)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create project")
	defer cancel()

	team, err := h.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Team not found")
			return
		}
		h.Log.Error("projects: team lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create project")
		return
	}
	if u.Role != models.RoleAdmin && team.Owner != u.ID && !team.HasMember(u.ID) {
		httpjson.Error(w, http.StatusForbidden, "Access denied to this team")
		return
	}

	project, err := h.projects.Create(ctx, models.Project{
		Name:        name,
		Description: htmlsanitize.Strip(req.Description),
		Team:        teamID,
		Owner:       u.ID,
		Members:     members,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalBudget: req.TotalBudget,
	})
	if err != nil {
		h.Log.Error("projects: create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create project")
		return
	}

	if err := h.teams.AddProject(ctx, teamID, project.ID); err != nil {
		// The project exists; the team's back-reference is repairable.
		h.Log.Error("projects: linking project to team failed",
			zap.String("project", project.ID.Hex()),
			zap.String("team", teamID.Hex()),
			zap.Error(err))
	}

	h.Fanout.ProjectCreated(ctx, u.ID, project)

	httpjson.OK(w, http.StatusCreated, map[string]any{"project": project})
}

// ServeProjectView handles GET /api/projects/{id}.
func (h *Handler) ServeProjectView(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view project")
	defer cancel()

	project, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	team := h.owningTeam(ctx, project)
	if d := projectpolicy.CanView(u, project, team); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"project": project})
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// HandleUpdateProject handles PUT /api/projects/{id}. Owner or
// project member. Absent fields are left untouched.
func (h *Handler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req updateProjectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update project")
	defer cancel()

	project, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if d := projectpolicy.CanEdit(u, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	set := bson.M{}
	changes := map[string]string{}
	if req.Name != nil {
		name, ok := inputval.TrimmedNonEmpty(htmlsanitize.Strip(*req.Name))
		if !ok {
			httpjson.Error(w, http.StatusBadRequest, "Project name cannot be empty")
			return
		}
		set["name"] = name
		changes["name"] = name
	}
	if req.Description != nil {
		set["description"] = htmlsanitize.Strip(*req.Description)
	}
	if req.Status != nil {
		if !models.ValidProjectStatus(*req.Status) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid project status")
			return
		}
		set["status"] = *req.Status
		changes["status"] = *req.Status
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid priority")
			return
		}
		set["priority"] = *req.Priority
		changes["priority"] = *req.Priority
	}
	if req.StartDate != nil {
		set["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		set["end_date"] = *req.EndDate
	}
	if len(set) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	if err := h.projects.UpdateFields(ctx, project.ID, set); err != nil {
		h.Log.Error("projects: update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update project")
		return
	}

	project, err := h.projects.GetByID(ctx, project.ID)
	if err != nil {
		h.Log.Error("projects: reload after update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update project")
		return
	}

	h.Fanout.ProjectUpdated(ctx, u.ID, project, changes)

	httpjson.OK(w, http.StatusOK, map[string]any{"project": project})
}

// HandleDeleteProject handles DELETE /api/projects/{id}. Owner only.
// The project document is hard-deleted; its tasks, comments, and
// files are left in place with dangling references. The team's
// back-reference is pulled best-effort.
func (h *Handler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete project")
	defer cancel()

	project, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if d := projectpolicy.CanAdminister(u, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	if _, err := h.projects.Delete(ctx, project.ID); err != nil {
		h.Log.Error("projects: delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete project")
		return
	}

	if err := h.teams.RemoveProject(ctx, project.Team, project.ID); err != nil {
		h.Log.Warn("projects: unlinking deleted project from team failed",
			zap.String("project", project.ID.Hex()), zap.Error(err))
	}

	h.Fanout.ProjectDeleted(ctx, u.ID, project)

	httpjson.OK(w, http.StatusOK, map[string]any{"message": "Project deleted"})
}
