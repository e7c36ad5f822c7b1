// internal/app/features/timeentries/handler.go
package timeentries

import (
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	timeentrystore "github.com/taskhive/taskhive/internal/app/store/timeentries"
	"github.com/taskhive/taskhive/internal/app/system/fanout"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the time-tracking
// feature.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Fanout *fanout.Recorder

	entries  *timeentrystore.Store
	tasks    *taskstore.Store
	projects *projectstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *fanout.Recorder) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Fanout:   rec,
		entries:  timeentrystore.New(db),
		tasks:    taskstore.New(db),
		projects: projectstore.New(db),
	}
}
