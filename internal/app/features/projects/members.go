// internal/app/features/projects/members.go
package projects

import (
	"net/http"

	"github.com/taskhive/taskhive/internal/app/policy/projectpolicy"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memberRequest struct {
	UserID string `json:"userId"`
}

// HandleAddMember handles PUT /api/projects/{id}/add-member. Owner
// only. Same load-mutate-save shape as team membership.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req memberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "add project member")
	defer cancel()

	project, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if d := projectpolicy.CanAdminister(u, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	active, err := h.users.ExistsActive(ctx, userID)
	if err != nil {
		h.Log.Error("projects: member lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not add member")
		return
	}
	if !active {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if project.HasMember(userID) {
		httpjson.Error(w, http.StatusBadRequest, "User is already a member of this project")
		return
	}

	members := append(project.Members, userID)
	if err := h.projects.SetMembers(ctx, project.ID, members); err != nil {
		h.Log.Error("projects: add member failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not add member")
		return
	}

	project.Members = members
	httpjson.OK(w, http.StatusOK, map[string]any{"project": project})
}

// HandleRemoveMember handles PUT /api/projects/{id}/remove-member.
// Owner only. Unlike teams, the project owner may drop themselves
// from the member list; ownership is a separate field.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req memberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "remove project member")
	defer cancel()

	project, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if d := projectpolicy.CanAdminister(u, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	if !project.HasMember(userID) {
		httpjson.Error(w, http.StatusBadRequest, "User is not a member of this project")
		return
	}

	members := make([]primitive.ObjectID, 0, len(project.Members)-1)
	for _, m := range project.Members {
		if m != userID {
			members = append(members, m)
		}
	}
	if err := h.projects.SetMembers(ctx, project.ID, members); err != nil {
		h.Log.Error("projects: remove member failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not remove member")
		return
	}

	project.Members = members
	httpjson.OK(w, http.StatusOK, map[string]any{"project": project})
}
