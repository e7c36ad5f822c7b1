// internal/domain/models/entityref.go
package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntityType names the collection a satellite record points at.
// Using a closed enum instead of a free-form string removes the class of
// typo/mismatch bugs a raw discriminator invites.
type EntityType string

const (
	EntityTask    EntityType = "task"
	EntityProject EntityType = "project"
	EntityComment EntityType = "comment"
	EntityTeam    EntityType = "team"
)

// ParseEntityType validates a wire-format discriminator.
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityTask, EntityProject, EntityComment, EntityTeam:
		return EntityType(s), nil
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// EntityRef is a typed polymorphic reference used by satellite records
// (comments, files, activity logs, notifications) to point at a primary
// entity. Deleting the primary entity does not cascade; dangling refs
// are expected and tolerated by readers.
type EntityRef struct {
	Type EntityType         `bson:"entity_type" json:"entityType"`
	ID   primitive.ObjectID `bson:"entity_id" json:"entityId"`
}

// NewEntityRef builds a validated reference from wire-format inputs.
func NewEntityRef(entityType, entityID string) (EntityRef, error) {
	et, err := ParseEntityType(entityType)
	if err != nil {
		return EntityRef{}, err
	}
	oid, err := primitive.ObjectIDFromHex(entityID)
	if err != nil {
		return EntityRef{}, fmt.Errorf("invalid entity id %q", entityID)
	}
	return EntityRef{Type: et, ID: oid}, nil
}
