// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/tasks.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeTaskList)
		pr.Post("/", h.HandleCreateTask)

		pr.Get("/{id}", h.ServeTaskView)
		pr.Put("/{id}", h.HandleUpdateTask)
		pr.Delete("/{id}", h.HandleDeleteTask)
	})

	return r
}
