// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotifyTaskAssigned = "TASK_ASSIGNED"
	NotifyMention      = "MENTION"
)

// Notification targets a single recipient. Created unread; the inbox
// endpoints flip IsRead.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Type      string             `bson:"type" json:"type"`
	Message   string             `bson:"message" json:"message"`
	EntityRef `bson:",inline"`
	IsRead    bool               `bson:"is_read" json:"isRead"`

	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	ReadAt    *time.Time `bson:"read_at,omitempty" json:"readAt,omitempty"`
}
