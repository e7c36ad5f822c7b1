// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound    = errors.New("team not found")
	ErrOwnerLocked = errors.New("the team owner cannot be removed from the team")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// Create inserts a new team. The owner is always seeded into Members,
// establishing the owner-is-member invariant at creation.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	if !t.HasMember(t.Owner) {
		t.Members = append(t.Members, t.Owner)
	}
	if t.Projects == nil {
		t.Projects = []primitive.ObjectID{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// GetByID retrieves a team by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Team{}, ErrNotFound
		}
		return models.Team{}, err
	}
	return t, nil
}

// ListForUser returns teams the user owns or belongs to, name-sorted.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Team, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"owner": userID},
		bson.M{"members": userID},
	}}
	return s.find(ctx, filter)
}

// ListAll returns every team, name-sorted. Admin use only.
func (s *Store) ListAll(ctx context.Context) ([]models.Team, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Update changes a team's name/description.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, description string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if name != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if description != "" {
		set["description"] = description
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMembers replaces the full member list. The new list must still
// contain the owner; the update filter matches nothing otherwise and
// the call fails with ErrOwnerLocked. Callers mutate the loaded team
// in memory and write the whole list back, so concurrent writers race
// and the last write wins.
func (s *Store) SetMembers(ctx context.Context, id primitive.ObjectID, members []primitive.ObjectID) error {
	if members == nil {
		members = []primitive.ObjectID{}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "owner": bson.M{"$in": members}},
		bson.M{"$set": bson.M{
			"members":    members,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrOwnerLocked
		}
		return ErrNotFound
	}
	return nil
}

// AddProject appends a project id to the team's project list. Called
// after the project document is inserted; the two writes are separate.
func (s *Store) AddProject(ctx context.Context, id, projectID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"projects": projectID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveProject drops a project id from the team's project list.
func (s *Store) RemoveProject(ctx context.Context, id, projectID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"projects": projectID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Delete hard-deletes a team. Satellite records and member/project
// references are left behind intentionally (no cascade).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the teams collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetName("idx_team_owner"),
		},
		{
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_team_members"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_team_name_ci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
