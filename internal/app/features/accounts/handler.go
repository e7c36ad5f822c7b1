// internal/app/features/accounts/handler.go
package accounts

import (
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the accounts feature:
// registration, login, and the self-service profile.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Auth    *auth.Manager
	Limiter *ratelimit.LoginLimiter

	users *userstore.Store
}

// NewHandler constructs an accounts Handler. It is called from the
// bootstrap BuildHandler function, where the DB, logger, and token
// manager are already initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger, am *auth.Manager, limiter *ratelimit.LoginLimiter) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Auth:    am,
		Limiter: limiter,
		users:   userstore.New(db),
	}
}
