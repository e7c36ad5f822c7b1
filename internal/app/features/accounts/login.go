// internal/app/features/accounts/login.go
package accounts

import (
	"errors"
	"net/http"

	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/inputval"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/auth/login. Failed lookups and wrong
// passwords answer with the same message so the response does not
// reveal whether the account exists.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := inputval.NormalizeEmail(req.Email)

	if h.Limiter != nil {
		if allowed, msg := h.Limiter.Check(r, email); !allowed {
			httpjson.Error(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login lookup")
	defer cancel()

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Deactivated accounts fail after the password check so the
	// message is only shown to someone holding valid credentials.
	if !user.IsActive {
		httpjson.Error(w, http.StatusUnauthorized, "Account has been deactivated")
		return
	}

	token, err := h.Auth.IssueToken(user)
	if err != nil {
		h.Log.Error("login: issuing token failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}

	httpjson.OK(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}
