// internal/app/features/accounts/profile.go
package accounts

import (
	"errors"
	"net/http"

	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/inputval"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeProfile handles GET /api/auth/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load profile")
	defer cancel()

	user, err := h.users.GetByID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("profile: load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load profile")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"user": user})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleUpdateProfile handles PUT /api/auth/profile. Only name and
// email are self-serviceable; role changes go through an admin.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req updateProfileRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, ok := inputval.TrimmedNonEmpty(htmlsanitize.Strip(req.Name))
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		httpjson.Error(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update profile")
	defer cancel()

	if err := h.users.UpdateProfile(ctx, u.ID, name, inputval.NormalizeEmail(req.Email)); err != nil {
		switch {
		case errors.Is(err, userstore.ErrNotFound):
			httpjson.Error(w, http.StatusNotFound, "User not found")
		case errors.Is(err, userstore.ErrDuplicateEmail):
			httpjson.Error(w, http.StatusBadRequest, "User already exists with this email")
		default:
			h.Log.Error("profile: update failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not update profile")
		}
		return
	}

	user, err := h.users.GetByID(ctx, u.ID)
	if err != nil {
		h.Log.Error("profile: reload after update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update profile")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"user": user})
}
