// internal/app/features/timeentries/routes.go
package timeentries

import (
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/timeentries.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleLogTime)
		pr.Get("/task/{taskID}", h.ServeTaskEntries)
	})

	return r
}
