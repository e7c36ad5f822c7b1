// internal/app/features/teams/routes.go
package teams

import (
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/teams.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeTeamList)
		pr.Post("/", h.HandleCreateTeam)

		pr.Get("/{id}", h.ServeTeamView)
		pr.Put("/{id}", h.HandleUpdateTeam)
		pr.Delete("/{id}", h.HandleDeleteTeam)

		pr.Put("/{id}/add-member", h.HandleAddMember)
		pr.Put("/{id}/remove-member", h.HandleRemoveMember)
	})

	return r
}
