// internal/app/store/timeentries/timeentrystore.go
package timeentrystore

import (
	"context"
	"time"

	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("time_entries")}
}

// Create inserts a time entry. Date defaults to now when the caller
// leaves it zero.
func (s *Store) Create(ctx context.Context, e models.TimeEntry) (models.TimeEntry, error) {
	e.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if e.Date.IsZero() {
		e.Date = now
	}
	e.CreatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.TimeEntry{}, err
	}
	return e, nil
}

// ListForTask returns time entries for a task, newest date first.
func (s *Store) ListForTask(ctx context.Context, taskID primitive.ObjectID) ([]models.TimeEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"task": taskID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.TimeEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// TotalForTask sums logged hours across a task's entries.
func (s *Store) TotalForTask(ctx context.Context, taskID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"task": taskID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$hours"}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

// EnsureIndexes creates indexes for the time_entries collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "task", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().SetName("idx_time_task"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("idx_time_user"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
