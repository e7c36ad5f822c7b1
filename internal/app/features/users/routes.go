// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// Routes returns the subrouter mounted under /api/users. Everything
// here is admin-only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeUserList)
		pr.Delete("/{id}", h.HandleDeactivateUser)
	})

	return r
}
