// internal/domain/models/timeentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeEntry logs hours a user spent on a task. Creating an entry also
// increments the task's actual_hours counter in a second, separate
// write; if that increment fails the entry still stands and the
// counter drifts low until recomputed.
type TimeEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Task        primitive.ObjectID `bson:"task" json:"task"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Hours       float64            `bson:"hours" json:"hours"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
