// internal/app/features/accounts/register.go
package accounts

import (
	"errors"
	"net/http"

	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/inputval"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleRegister handles POST /api/auth/register. On success it
// returns 201 with the created user and a signed token.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
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
	if len(req.Password) < 6 {
		httpjson.Error(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	role := models.RoleMember
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			httpjson.Error(w, http.StatusBadRequest, "Invalid role")
			return
		}
		role = req.Role
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("register: hashing password failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register user")
	defer cancel()

	user, err := h.users.Create(ctx, models.User{
		Name:         name,
		Email:        inputval.NormalizeEmail(req.Email),
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			// Duplicate registration answers 400 rather than 409; the
			// client treats every 4xx envelope the same way.
			httpjson.Error(w, http.StatusBadRequest, "User already exists with this email")
			return
		}
		h.Log.Error("register: creating user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := h.Auth.IssueToken(user)
	if err != nil {
		h.Log.Error("register: issuing token failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	httpjson.OK(w, http.StatusCreated, map[string]any{
		"user":  user,
		"token": token,
	})
}
