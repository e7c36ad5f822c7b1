// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	activitystore "github.com/taskhive/taskhive/internal/app/store/activitylogs"
	commentstore "github.com/taskhive/taskhive/internal/app/store/comments"
	filestore "github.com/taskhive/taskhive/internal/app/store/files"
	notificationstore "github.com/taskhive/taskhive/internal/app/store/notifications"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	timeentrystore "github.com/taskhive/taskhive/internal/app/store/timeentries"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/app/system/validators"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema applies collection validators and creates the indexes
// each store declares. It runs once at startup, after ConnectDB.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}

	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}
	stores := map[string]indexer{
		"users":         userstore.New(db),
		"teams":         teamstore.New(db),
		"projects":      projectstore.New(db),
		"tasks":         taskstore.New(db),
		"comments":      commentstore.New(db),
		"activity_logs": activitystore.New(db),
		"notifications": notificationstore.New(db),
		"files":         filestore.New(db),
		"time_entries":  timeentrystore.New(db),
	}
	for name, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", name, err)
		}
	}

	logger.Info("schema ensured", zap.Int("collections", len(stores)))
	return nil
}
