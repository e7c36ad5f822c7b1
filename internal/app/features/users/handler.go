// internal/app/features/users/handler.go
package users

import (
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for admin user
// management.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	users *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Log:   logger,
		users: userstore.New(db),
	}
}
