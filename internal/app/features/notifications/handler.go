// internal/app/features/notifications/handler.go
package notifications

import (
	notificationstore "github.com/taskhive/taskhive/internal/app/store/notifications"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the notifications
// feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		notifications: notificationstore.New(db),
	}
}
