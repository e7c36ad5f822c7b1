// internal/app/features/files/routes.go
package files

import (
	"github.com/go-chi/chi/v5"
	"github.com/taskhive/taskhive/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/files.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/upload", h.HandleUpload)
		pr.Get("/{entityType}/{entityID}", h.ServeFileList)
	})

	return r
}
