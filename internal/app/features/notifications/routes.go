// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/notifications.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeNotificationList)
		pr.Put("/read-all", h.HandleMarkAllRead)
		pr.Put("/{id}/read", h.HandleMarkRead)
	})

	return r
}
