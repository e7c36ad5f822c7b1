// internal/domain/models/activitylog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity actions recorded alongside primary mutations.
const (
	ActionTeamCreated       = "TEAM_CREATED"
	ActionTeamUpdated       = "TEAM_UPDATED"
	ActionTeamDeleted       = "TEAM_DELETED"
	ActionMemberAdded       = "MEMBER_ADDED"
	ActionMemberRemoved     = "MEMBER_REMOVED"
	ActionProjectCreated    = "PROJECT_CREATED"
	ActionProjectUpdated    = "PROJECT_UPDATED"
	ActionProjectDeleted    = "PROJECT_DELETED"
	ActionTaskCreated       = "TASK_CREATED"
	ActionTaskUpdated       = "TASK_UPDATED"
	ActionTaskStatusChanged = "TASK_STATUS_CHANGED"
	ActionTaskAssigned      = "TASK_ASSIGNED"
	ActionTaskDeleted       = "TASK_DELETED"
	ActionCommentAdded      = "COMMENT_ADDED"
	ActionFileUploaded      = "FILE_UPLOADED"
	ActionTimeLogged        = "TIME_LOGGED"
)

// ActivityLog is an append-only record of a successful mutation.
// Rows are never updated or deleted by normal flows, and a failed
// activity write never rolls back the primary mutation.
type ActivityLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Action      string             `bson:"action" json:"action"`
	EntityRef   `bson:",inline"`
	EntityName  string             `bson:"entity_name,omitempty" json:"entityName,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Changes     map[string]string  `bson:"changes,omitempty" json:"changes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
