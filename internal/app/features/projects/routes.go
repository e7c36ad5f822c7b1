// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/projects.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeProjectList)
		pr.Post("/", h.HandleCreateProject)

		pr.Get("/{id}", h.ServeProjectView)
		pr.Put("/{id}", h.HandleUpdateProject)
		pr.Delete("/{id}", h.HandleDeleteProject)

		pr.Put("/{id}/add-member", h.HandleAddMember)
		pr.Put("/{id}/remove-member", h.HandleRemoveMember)

		pr.Get("/{id}/budget", h.ServeBudget)
		pr.Put("/{id}/budget", h.HandleUpdateBudget)
	})

	return r
}
