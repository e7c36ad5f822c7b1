// internal/app/features/comments/handler.go
package comments

import (
	commentstore "github.com/taskhive/taskhive/internal/app/store/comments"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	"github.com/taskhive/taskhive/internal/app/system/fanout"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the comments feature.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Fanout *fanout.Recorder

	comments *commentstore.Store
	tasks    *taskstore.Store
	projects *projectstore.Store
	teams    *teamstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *fanout.Recorder) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Fanout:   rec,
		comments: commentstore.New(db),
		tasks:    taskstore.New(db),
		projects: projectstore.New(db),
		teams:    teamstore.New(db),
	}
}
