// internal/app/features/files/handler.go
package files

import (
	filestore "github.com/taskhive/taskhive/internal/app/store/files"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	"github.com/taskhive/taskhive/internal/app/system/fanout"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the files feature.
// UploadDir is the root directory attachment bytes are written under;
// the same directory is served read-only at /uploads.
type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	Fanout    *fanout.Recorder
	UploadDir string

	files    *filestore.Store
	tasks    *taskstore.Store
	projects *projectstore.Store
	teams    *teamstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *fanout.Recorder, uploadDir string) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		Fanout:    rec,
		UploadDir: uploadDir,
		files:     filestore.New(db),
		tasks:     taskstore.New(db),
		projects:  projectstore.New(db),
		teams:     teamstore.New(db),
	}
}
