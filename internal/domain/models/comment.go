// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment annotates a task or project. Content is HTML-sanitized before
// it reaches the store. Mentions holds user ids the author explicitly
// tagged; each mention produces a notification.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EntityRef `bson:",inline"`
	Author   primitive.ObjectID   `bson:"author" json:"author"`
	Content  string               `bson:"content" json:"content"`
	Mentions []primitive.ObjectID `bson:"mentions,omitempty" json:"mentions,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
