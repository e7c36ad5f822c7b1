// internal/app/features/teams/handler.go
package teams

import (
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/fanout"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the teams feature.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Fanout *fanout.Recorder

	teams *teamstore.Store
	users *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *fanout.Recorder) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Fanout: rec,
		teams:  teamstore.New(db),
		users:  userstore.New(db),
	}
}
