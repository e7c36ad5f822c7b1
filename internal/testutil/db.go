package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	activitystore "github.com/taskhive/taskhive/internal/app/store/activitylogs"
	commentstore "github.com/taskhive/taskhive/internal/app/store/comments"
	filestore "github.com/taskhive/taskhive/internal/app/store/files"
	notificationstore "github.com/taskhive/taskhive/internal/app/store/notifications"
	projectstore "github.com/taskhive/taskhive/internal/app/store/projects"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	teamstore "github.com/taskhive/taskhive/internal/app/store/teams"
	timeentrystore "github.com/taskhive/taskhive/internal/app/store/timeentries"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// SetupTestDB connects to the test MongoDB instance and returns a
// fresh, uniquely named database for this test. The database is
// dropped and the client disconnected via t.Cleanup. Tests are skipped
// when no MongoDB is reachable, so the suite still passes on machines
// without a local instance.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TASKHIVE_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to test MongoDB at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("skipping: test MongoDB at %s not reachable: %v", uri, err)
	}

	dbName := fmt.Sprintf("taskhive_test_%s", primitive.NewObjectID().Hex())
	db := client.Database(dbName)
	ensureIndexes(t, db)

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(cleanupCtx); err != nil {
			t.Logf("failed to drop test database %s: %v", dbName, err)
		}
		_ = client.Disconnect(cleanupCtx)
	})

	return db
}

// ensureIndexes creates each store's indexes on the fresh database, so
// tests see the same uniqueness and lookup behavior as a deployed
// instance (duplicate email rejection in particular depends on the
// unique index, not on application checks).
func ensureIndexes(t *testing.T, db *mongo.Database) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

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
			t.Fatalf("failed to ensure indexes for %s: %v", name, err)
		}
	}
}

// TestContext returns a context with a generous timeout for test
// database operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
