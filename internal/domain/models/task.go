// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses. The enum is flat: any status may move to any other.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in-progress"
	TaskReview     = "review"
	TaskDone       = "done"
)

// ValidTaskStatus reports whether s is a recognized task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

// Subtask is an embedded checklist item. Completion of subtasks has no
// automatic effect on the parent task's status.
type Subtask struct {
	Title       string     `bson:"title" json:"title"`
	IsCompleted bool       `bson:"is_completed" json:"isCompleted"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// Task is a unit of work inside a project.
//
// Invariant: CompletedAt is non-nil iff Status == done. ApplyStatus is
// the only place that touches CompletedAt.
//
// Dependencies are advisory: they are stored and returned so clients can
// warn about unfinished prerequisites, but they never block a status
// change (including to done).
type Task struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title" json:"title"`
	TitleCI      string               `bson:"title_ci" json:"-"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	Project      primitive.ObjectID   `bson:"project" json:"project"`
	AssignedTo   *primitive.ObjectID  `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	CreatedBy    primitive.ObjectID   `bson:"created_by" json:"createdBy"`
	Status       string               `bson:"status" json:"status"`
	Priority     string               `bson:"priority" json:"priority"`
	DueDate      *time.Time           `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	CompletedAt  *time.Time           `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Subtasks     []Subtask            `bson:"subtasks,omitempty" json:"subtasks,omitempty"`
	Dependencies []primitive.ObjectID `bson:"dependencies,omitempty" json:"dependencies,omitempty"`

	EstimatedHours float64 `bson:"estimated_hours,omitempty" json:"estimatedHours,omitempty"`
	ActualHours    float64 `bson:"actual_hours,omitempty" json:"actualHours,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ApplyStatus moves the task to newStatus and maintains the CompletedAt
// invariant: entering done stamps now (refreshing on done→done), leaving
// done clears the stamp.
func (t *Task) ApplyStatus(newStatus string, now time.Time) {
	t.Status = newStatus
	if newStatus == TaskDone {
		stamp := now.UTC()
		t.CompletedAt = &stamp
		return
	}
	t.CompletedAt = nil
}
