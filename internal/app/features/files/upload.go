// internal/app/features/files/upload.go
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/app/policy/projectpolicy"
	"github.com/taskhive/taskhive/internal/app/policy/taskpolicy"
	"github.com/taskhive/taskhive/internal/app/policy/teampolicy"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/limits"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.uber.org/zap"
)

// checkEntityAccess gates attachment reads and writes on the referenced
// entity's own access rules. A dangling reference is allowed through:
// attachments outlive their primaries.
func (h *Handler) checkEntityAccess(ctx context.Context, u *auth.Principal, ref models.EntityRef) (bool, string) {
	switch ref.Type {
	case models.EntityTask:
		task, err := h.tasks.GetByID(ctx, ref.ID)
		if err != nil {
			if !errors.Is(err, taskstore.ErrNotFound) {
				h.Log.Warn("files: task lookup failed", zap.Error(err))
			}
			return true, ""
		}
		project, _ := h.projects.GetByID(ctx, task.Project)
		if d := taskpolicy.CanAccess(u, task, project); !d.Allowed {
			return false, d.Reason
		}

	case models.EntityProject:
		project, err := h.projects.GetByID(ctx, ref.ID)
		if err != nil {
			if !errors.Is(err, projectstore.ErrNotFound) {
				h.Log.Warn("files: project lookup failed", zap.Error(err))
			}
			return true, ""
		}
		team, _ := h.teams.GetByID(ctx, project.Team)
		if d := projectpolicy.CanView(u, project, team); !d.Allowed {
			return false, d.Reason
		}

	case models.EntityTeam:
		team, err := h.teams.GetByID(ctx, ref.ID)
		if err != nil {
			if !errors.Is(err, teamstore.ErrNotFound) {
				h.Log.Warn("files: team lookup failed", zap.Error(err))
			}
			return true, ""
		}
		if d := teampolicy.CanView(u, team); !d.Allowed {
			return false, d.Reason
		}
	}
	return true, ""
}

// HandleUpload handles POST /api/files/upload (multipart). The bytes
// are written under UploadDir at YYYY/MM/<uuid>-<name> before the
// record insert; a failed insert leaves an orphaned file on disk, which
// is harmless.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxUploadSize)
	if err := r.ParseMultipartForm(limits.MaxUploadSize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid upload or file too large")
		return
	}
	ref, err := models.NewEntityRef(r.FormValue("entityType"), r.FormValue("entityId"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "A valid entity reference is required")
		return
	}
	src, header, err := r.FormFile("file")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer src.Close()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "upload file")
	defer cancel()

	if allowed, reason := h.checkEntityAccess(ctx, u, ref); !allowed {
		httpjson.Error(w, http.StatusForbidden, reason)
		return
	}

	storedPath, size, err := h.writeToDisk(header.Filename, src)
	if err != nil {
		h.Log.Error("files: disk write failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not store file")
		return
	}

	file, err := h.files.Create(ctx, models.File{
		EntityRef:   ref,
		UploadedBy:  u.ID,
		FileName:    header.Filename,
		StoredPath:  storedPath,
		Size:        size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.Log.Error("files: create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not store file")
		return
	}

	h.Fanout.FileUploaded(ctx, file)

	httpjson.OK(w, http.StatusCreated, map[string]any{"file": file})
}

// writeToDisk stores the upload under a unique dated path and returns
// the path relative to UploadDir.
func (h *Handler) writeToDisk(filename string, src io.Reader) (string, int64, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	rel := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	dir := filepath.Join(h.UploadDir, dateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(h.UploadDir, filepath.FromSlash(rel)))
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return "", 0, fmt.Errorf("write upload: %w", err)
	}
	return rel, size, nil
}

// sanitizeFilename strips path components and replaces characters that
// cannot appear in a stored name, truncating long names but keeping a
// short extension.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		return "file"
	}

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if allowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func allowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}

// ServeFileList handles GET /api/files/{entityType}/{entityID}.
func (h *Handler) ServeFileList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ref, err := models.NewEntityRef(chi.URLParam(r, "entityType"), chi.URLParam(r, "entityID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "A valid entity reference is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list files")
	defer cancel()

	if allowed, reason := h.checkEntityAccess(ctx, u, ref); !allowed {
		httpjson.Error(w, http.StatusForbidden, reason)
		return
	}

	files, err := h.files.ListForEntity(ctx, ref)
	if err != nil {
		h.Log.Error("files: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not list files")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{"files": files})
}
