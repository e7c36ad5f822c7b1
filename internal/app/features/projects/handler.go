// internal/app/features/projects/handler.go
package projects

import (
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/fanout"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the projects feature.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Fanout *fanout.Recorder

	projects *projectstore.Store
	teams    *teamstore.Store
	users    *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *fanout.Recorder) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Fanout:   rec,
		projects: projectstore.New(db),
		teams:    teamstore.New(db),
		users:    userstore.New(db),
	}
}
