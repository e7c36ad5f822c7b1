// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/taskhive/taskhive/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher. Loading the user fresh on every
// request means role changes and deactivation take effect immediately,
// even for tokens issued before the change.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a user by id. It returns nil if the user is not
// found, deactivated, or if any error occurs; callers treat nil as
// "not authenticated".
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.Principal {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	var u struct {
		ID       primitive.ObjectID `bson:"_id"`
		Name     string             `bson:"name"`
		Email    string             `bson:"email"`
		Role     string             `bson:"role"`
		IsActive bool               `bson:"is_active"`
	}
	proj := options.FindOne().SetProjection(bson.M{
		"_id": 1, "name": 1, "email": 1, "role": 1, "is_active": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil
	}
	if !u.IsActive {
		return nil
	}

	return &auth.Principal{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
