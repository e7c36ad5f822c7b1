// internal/app/features/comments/comments.go
package comments

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/policy/projectpolicy"
	"github.com/taskhive/taskhive/internal/app/policy/taskpolicy"
	"github.com/taskhive/taskhive/internal/app/policy/teampolicy"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/inputval"
	"github.com/taskhive/taskhive/internal/app/system/mentions"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// resolveEntity looks up the referenced entity and decides whether the
// caller may see it. It returns the entity's display name for the
// activity log. A dangling reference (the entity was deleted, or it is
// another comment) resolves to an empty name and access is granted;
// satellites outlive their primaries and stay readable.
func (h *Handler) resolveEntity(ctx context.Context, u *auth.Principal, ref models.EntityRef) (string, bool, string) {
	switch ref.Type {
	case models.EntityTask:
		task, err := h.tasks.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, taskstore.ErrNotFound) {
				return "", true, ""
			}
			h.Log.Warn("comments: task lookup failed", zap.Error(err))
			return "", true, ""
		}
		project, _ := h.projects.GetByID(ctx, task.Project)
		if d := taskpolicy.CanAccess(u, task, project); !d.Allowed {
			return "", false, d.Reason
		}
		return task.Title, true, ""

	case models.EntityProject:
		project, err := h.projects.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, projectstore.ErrNotFound) {
				return "", true, ""
			}
			h.Log.Warn("comments: project lookup failed", zap.Error(err))
			return "", true, ""
		}
		team, _ := h.teams.GetByID(ctx, project.Team)
		if d := projectpolicy.CanView(u, project, team); !d.Allowed {
			return "", false, d.Reason
		}
		return project.Name, true, ""

	case models.EntityTeam:
		team, err := h.teams.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, teamstore.ErrNotFound) {
				return "", true, ""
			}
			h.Log.Warn("comments: team lookup failed", zap.Error(err))
			return "", true, ""
		}
		if d := teampolicy.CanView(u, team); !d.Allowed {
			return "", false, d.Reason
		}
		return team.Name, true, ""
	}
	return "", true, ""
}

type createCommentRequest struct {
	Content    string   `json:"content"`
	EntityType string   `json:"entityType"`
	EntityID   string   `json:"entityId"`
	Mentions   []string `json:"mentions"`
}

// HandleCreateComment handles POST /api/comments. Content keeps safe
// user markup; mention notifications are driven by the explicit
// mentions array, not by @handles found in the text.
func (h *Handler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req createCommentRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	content, ok := inputval.TrimmedNonEmpty(htmlsanitize.Sanitize(req.Content))
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "Comment content is required")
		return
	}
	ref, err := models.NewEntityRef(req.EntityType, req.EntityID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "A valid entity reference is required")
		return
	}
	mentioned := make([]primitive.ObjectID, 0, len(req.Mentions))
	for _, hex := range req.Mentions {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid mention id")
			return
		}
		mentioned = append(mentioned, id)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create comment")
	defer cancel()

	entityName, allowed, reason := h.resolveEntity(ctx, u, ref)
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, reason)
		return
	}

	if handles := mentions.Extract(content); len(handles) > 0 && len(mentioned) == 0 {
		h.Log.Debug("comments: inline @handles without explicit mention ids",
			zap.Strings("handles", handles))
	}

	comment, err := h.comments.Create(ctx, models.Comment{
		EntityRef: ref,
		Author:    u.ID,
		Content:   content,
		Mentions:  mentioned,
	})
	if err != nil {
		h.Log.Error("comments: create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create comment")
		return
	}

	h.Fanout.CommentAdded(ctx, comment, entityName)

	httpjson.OK(w, http.StatusCreated, map[string]any{"comment": comment})
}

// ServeCommentList handles GET /api/comments/{entityType}/{entityID},
// oldest first.
func (h *Handler) ServeCommentList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ref, err := models.NewEntityRef(chi.URLParam(r, "entityType"), chi.URLParam(r, "entityID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "A valid entity reference is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list comments")
	defer cancel()

	_, allowed, reason := h.resolveEntity(ctx, u, ref)
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, reason)
		return
	}

	comments, err := h.comments.ListForEntity(ctx, ref)
	if err != nil {
		h.Log.Error("comments: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list comments")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"comments": comments})
}
