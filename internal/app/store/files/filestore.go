// internal/app/store/files/filestore.go
package filestore

import (
	"context"
	"errors"
	"time"

	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("file not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("files")}
}

// Create inserts a file record. The bytes are already on disk when
// this runs; a failed insert leaves an orphaned file, which is
// harmless and cleaned up out of band.
func (s *Store) Create(ctx context.Context, f models.File) (models.File, error) {
	f.ID = primitive.NewObjectID()
	f.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.File{}, err
	}
	return f, nil
}

// GetByID retrieves a file record by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.File, error) {
	var f models.File
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.File{}, ErrNotFound
		}
		return models.File{}, err
	}
	return f, nil
}

// ListForEntity returns file records attached to the referenced entity.
func (s *Store) ListForEntity(ctx context.Context, ref models.EntityRef) ([]models.File, error) {
	filter := bson.M{"entity_type": ref.Type, "entity_id": ref.ID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var files []models.File
	if err := cur.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// EnsureIndexes creates indexes for the files collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "entity_type", Value: 1},
				{Key: "entity_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_file_entity"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
