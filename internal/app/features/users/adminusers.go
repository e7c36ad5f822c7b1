// internal/app/features/users/adminusers.go
package users

import (
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeUserList handles GET /api/users. Inactive accounts are
// included; the caller can filter with ?active=true.
func (h *Handler) ServeUserList(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if query.Get(r, "active") == "true" {
		filter["is_active"] = true
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	users, err := h.users.List(ctx, filter)
	if err != nil {
		h.Log.Error("users: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list users")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"users": users})
}

// HandleDeactivateUser handles DELETE /api/users/{id}. Users are
// never hard-deleted; the account is flagged inactive and all tokens
// stop resolving on the next request.
func (h *Handler) HandleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "deactivate user")
	defer cancel()

	if err := h.users.Deactivate(ctx, id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("users: deactivate failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not deactivate user")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"message": "User deactivated"})
}
