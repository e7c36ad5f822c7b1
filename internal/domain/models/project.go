// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses.
const (
	ProjectPlanned   = "planned"
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectOnHold    = "on-hold"
	ProjectCancelled = "cancelled"
)

// ValidProjectStatus reports whether s is a recognized project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectPlanned, ProjectActive, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return true
	}
	return false
}

// Priorities shared by projects and tasks.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Project belongs to exactly one team. The owning team's Projects list
// carries this project's id; the insert and the back-reference push are
// two separate writes, so a crash between them can leave a project its
// team does not list.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	NameCI      string               `bson:"name_ci" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Team        primitive.ObjectID   `bson:"team" json:"team"`
	Owner       primitive.ObjectID   `bson:"owner" json:"owner"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	Status      string               `bson:"status" json:"status"`
	Priority    string               `bson:"priority" json:"priority"`
	StartDate   *time.Time           `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time           `bson:"end_date,omitempty" json:"endDate,omitempty"`

	// Budget tracking. Spent accumulates from time entries and manual
	// adjustments; it is advisory and never blocks a mutation.
	TotalBudget float64 `bson:"total_budget,omitempty" json:"totalBudget,omitempty"`
	Spent       float64 `bson:"spent,omitempty" json:"spent,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether userID appears in the member list.
func (p Project) HasMember(userID primitive.ObjectID) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}
