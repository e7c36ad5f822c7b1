// internal/app/features/teams/crud.go
package teams

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/policy/teampolicy"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/inputval"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadTeam resolves {id} and fetches the team, writing the error
// response itself when anything fails.
func (h *Handler) loadTeam(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Team, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id")
		return models.Team{}, false
	}
	team, err := h.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Team not found")
			return models.Team{}, false
		}
		h.Log.Error("teams: load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team")
		return models.Team{}, false
	}
	return team, true
}

// ServeTeamList handles GET /api/teams. Admins see every team; other
// users see teams they own or belong to.
func (h *Handler) ServeTeamList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list teams")
	defer cancel()

	var (
		teams []models.Team
		err   error
	)
	if authz.IsAdmin(r) {
		teams, err = h.teams.ListAll(ctx)
	} else {
		teams, err = h.teams.ListForUser(ctx, u.ID)
	}
	if err != nil {
		h.Log.Error("teams: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list teams")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"teams": teams})
}

type createTeamRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// HandleCreateTeam handles POST /api/teams. The creator becomes the
// owner and is always seeded into the member list.
func (h *Handler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req createTeamRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name, ok := inputval.TrimmedNonEmpty(htmlsanitize.Strip(req.Name))
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "Team name is required")
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create team")
	defer cancel()

	team, err := h.teams.Create(ctx, models.Team{
		Name:        name,
		Description: htmlsanitize.Strip(req.Description),
		Owner:       u.ID,
		Members:     members,
	})
	if err != nil {
		h.Log.Error("teams: create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create team")
		return
	}

	h.Fanout.TeamCreated(ctx, u.ID, team)

	httpjson.OK(w, http.StatusCreated, map[string]any{"team": team})
}

// ServeTeamView handles GET /api/teams/{id}.
func (h *Handler) ServeTeamView(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view team")
	defer cancel()

	team, ok := h.loadTeam(ctx, w, r)
	if !ok {
		return
	}
	if d := teampolicy.CanView(u, team); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"team": team})
}

type updateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleUpdateTeam handles PUT /api/teams/{id}. Owner only.
func (h *Handler) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req updateTeamRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update team")
	defer cancel()

	team, ok := h.loadTeam(ctx, w, r)
	if !ok {
		return
	}
	if d := teampolicy.CanManage(u, team); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	name := htmlsanitize.Strip(req.Name)
	if err := h.teams.Update(ctx, team.ID, name, htmlsanitize.Strip(req.Description)); err != nil {
		h.Log.Error("teams: update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update team")
		return
	}

	team, err := h.teams.GetByID(ctx, team.ID)
	if err != nil {
		h.Log.Error("teams: reload after update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update team")
		return
	}

	h.Fanout.TeamUpdated(ctx, u.ID, team, "updated team details", nil)

	httpjson.OK(w, http.StatusOK, map[string]any{"team": team})
}

// HandleDeleteTeam handles DELETE /api/teams/{id}. The team document
// is hard-deleted. Projects, tasks, and satellite records that point
// at it are left in place; readers tolerate dangling references.
func (h *Handler) HandleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete team")
	defer cancel()

	team, ok := h.loadTeam(ctx, w, r)
	if !ok {
		return
	}
	if d := teampolicy.CanManage(u, team); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	if _, err := h.teams.Delete(ctx, team.ID); err != nil {
		h.Log.Error("teams: delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete team")
		return
	}

	h.Fanout.TeamDeleted(ctx, u.ID, team)

	httpjson.OK(w, http.StatusOK, map[string]any{"message": "Team deleted"})
}
