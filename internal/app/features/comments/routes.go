// internal/app/features/comments/routes.go
package comments

import (
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/comments.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreateComment)
		pr.Get("/{entityType}/{entityID}", h.ServeCommentList)
	})

	return r
}
