// internal/app/system/fanout/recorder.go
package fanout

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	activitystore "github.com/taskhive/taskhive/internal/app/store/activitylogs"
	notificationstore "github.com/taskhive/taskhive/internal/app/store/notifications"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds fan-out configuration.
type Config struct {
	// Mode controls where activity events go.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled).
	// Notifications are written whenever the mode is not "off".
	Mode string
}

// Recorder writes the satellite records that follow a primary mutation:
// activity log entries and notifications. Writes are best-effort; a
// failure is logged and swallowed, never surfaced to the caller, so a
// flaky satellite collection cannot fail the request that already
// committed. A circuit breaker stops hammering the collections when
// they are persistently down.
type Recorder struct {
	activity      *activitystore.Store
	notifications *notificationstore.Store
	breaker       *gobreaker.CircuitBreaker
	log           *zap.Logger
	config        Config
}

// New creates a Recorder.
func New(activity *activitystore.Store, notifications *notificationstore.Store, zapLog *zap.Logger, config Config) *Recorder {
	if config.Mode == "" {
		config.Mode = "all"
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "fanout",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			zapLog.Warn("fan-out breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Recorder{
		activity:      activity,
		notifications: notifications,
		breaker:       breaker,
		log:           zapLog,
		config:        config,
	}
}

// Activity records an activity log entry.
// If the recorder is nil, this is a no-op (allows tests to skip fan-out).
func (rec *Recorder) Activity(ctx context.Context, e models.ActivityLog) {
	if rec == nil || rec.config.Mode == "off" {
		return
	}

	if rec.config.Mode == "all" || rec.config.Mode == "log" {
		rec.log.Info("activity",
			zap.String("action", e.Action),
			zap.String("user", e.User.Hex()),
			zap.String("entity_type", string(e.Type)),
			zap.String("entity_id", e.EntityRef.ID.Hex()),
			zap.String("description", e.Description))
	}

	if rec.config.Mode == "all" || rec.config.Mode == "db" {
		_, err := rec.breaker.Execute(func() (any, error) {
			return nil, rec.activity.Append(ctx, e)
		})
		if err != nil {
			rec.log.Error("failed to record activity",
				zap.Error(err),
				zap.String("action", e.Action))
		}
	}
}

// Notify delivers a notification to its recipient.
func (rec *Recorder) Notify(ctx context.Context, n models.Notification) {
	if rec == nil || rec.config.Mode == "off" {
		return
	}
	_, err := rec.breaker.Execute(func() (any, error) {
		_, cerr := rec.notifications.Create(ctx, n)
		return nil, cerr
	})
	if err != nil {
		rec.log.Error("failed to deliver notification",
			zap.Error(err),
			zap.String("type", n.Type),
			zap.String("recipient", n.Recipient.Hex()))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Event helpers                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// TeamCreated records creation of a team.
func (rec *Recorder) TeamCreated(ctx context.Context, actor primitive.ObjectID, team models.Team) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionTeamCreated,
		EntityRef:   models.EntityRef{Type: models.EntityTeam, ID: team.ID},
		EntityName:  team.Name,
		Description: fmt.Sprintf("created team %q", team.Name),
	})
}

// TeamUpdated records a team mutation, including membership changes.
func (rec *Recorder) TeamUpdated(ctx context.Context, actor primitive.ObjectID, team models.Team, description string, changes map[string]string) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionTeamUpdated,
		EntityRef:   models.EntityRef{Type: models.EntityTeam, ID: team.ID},
		EntityName:  team.Name,
		Description: description,
		Changes:     changes,
	})
}

// MemberAdded records a user joining a team's member list.
func (rec *Recorder) MemberAdded(ctx context.Context, actor primitive.ObjectID, team models.Team, member primitive.ObjectID) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionMemberAdded,
		EntityRef:   models.EntityRef{Type: models.EntityTeam, ID: team.ID},
		EntityName:  team.Name,
		Description: fmt.Sprintf("added a member to team %q", team.Name),
		Changes:     map[string]string{"member": member.Hex()},
	})
}

// MemberRemoved records a user leaving a team's member list.
func (rec *Recorder) MemberRemoved(ctx context.Context, actor primitive.ObjectID, team models.Team, member primitive.ObjectID) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionMemberRemoved,
		EntityRef:   models.EntityRef{Type: models.EntityTeam, ID: team.ID},
		EntityName:  team.Name,
		Description: fmt.Sprintf("removed a member from team %q", team.Name),
		Changes:     map[string]string{"member": member.Hex()},
	})
}

// TeamDeleted records deletion of a team.
func (rec *Recorder) TeamDeleted(ctx context.Context, actor primitive.ObjectID, team models.Team) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionTeamDeleted,
		EntityRef:   models.EntityRef{Type: models.EntityTeam, ID: team.ID},
		EntityName:  team.Name,
		Description: fmt.Sprintf("deleted team %q", team.Name),
	})
}

// ProjectCreated records creation of a project.
func (rec *Recorder) ProjectCreated(ctx context.Context, actor primitive.ObjectID, project models.Project) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionProjectCreated,
		EntityRef:   models.EntityRef{Type: models.EntityProject, ID: project.ID},
		EntityName:  project.Name,
		Description: fmt.Sprintf("created project %q", project.Name),
	})
}

// ProjectUpdated records a project mutation.
func (rec *Recorder) ProjectUpdated(ctx context.Context, actor primitive.ObjectID, project models.Project, changes map[string]string) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionProjectUpdated,
		EntityRef:   models.EntityRef{Type: models.EntityProject, ID: project.ID},
		EntityName:  project.Name,
		Description: fmt.Sprintf("updated project %q", project.Name),
		Changes:     changes,
	})
}

// ProjectDeleted records deletion of a project.
func (rec *Recorder) ProjectDeleted(ctx context.Context, actor primitive.ObjectID, project models.Project) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionProjectDeleted,
		EntityRef:   models.EntityRef{Type: models.EntityProject, ID: project.ID},
		EntityName:  project.Name,
		Description: fmt.Sprintf("deleted project %q", project.Name),
	})
}

// TaskCreated records creation of a task and notifies the assignee if
// one was set at creation time.
func (rec *Recorder) TaskCreated(ctx context.Context, actor primitive.ObjectID, task models.Task) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionTaskCreated,
		EntityRef:   models.EntityRef{Type: models.EntityTask, ID: task.ID},
		EntityName:  task.Title,
		Description: fmt.Sprintf("created task %q", task.Title),
	})
	if task.AssignedTo != nil && *task.AssignedTo != actor {
		rec.Notify(ctx, models.Notification{
			Recipient: *task.AssignedTo,
			Type:      models.NotifyTaskAssigned,
			Message:   fmt.Sprintf("You have been assigned to task %q", task.Title),
			EntityRef: models.EntityRef{Type: models.EntityTask, ID: task.ID},
		})
	}
}

// TaskUpdated records a general task mutation.
func (rec *Recorder) TaskUpdated(ctx context.Context, actor primitive.ObjectID, task models.Task, changes map[string]string) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionTaskUpdated,
		EntityRef:   models.EntityRef{Type: models.EntityTask, ID: task.ID},
		EntityName:  task.Title,
		Description: fmt.Sprintf("updated task %q", task.Title),
		Changes:     changes,
	})
}

// TaskStatusChanged records a task moving between statuses.
func (rec *Recorder) TaskStatusChanged(ctx context.Context, actor primitive.ObjectID, task models.Task, oldStatus string) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionTaskStatusChanged,
		EntityRef:   models.EntityRef{Type: models.EntityTask, ID: task.ID},
		EntityName:  task.Title,
		Description: fmt.Sprintf("moved task %q from %s to %s", task.Title, oldStatus, task.Status),
		Changes:     map[string]string{"status": task.Status},
	})
}

// TaskAssigned records a task being assigned and notifies the assignee.
// Self-assignment produces the activity entry but no notification.
func (rec *Recorder) TaskAssigned(ctx context.Context, actor primitive.ObjectID, task models.Task, assignee primitive.ObjectID) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionTaskAssigned,
		EntityRef:   models.EntityRef{Type: models.EntityTask, ID: task.ID},
		EntityName:  task.Title,
		Description: fmt.Sprintf("assigned task %q", task.Title),
		Changes:     map[string]string{"assigned_to": assignee.Hex()},
	})
	if assignee != actor {
		rec.Notify(ctx, models.Notification{
			Recipient: assignee,
			Type:      models.NotifyTaskAssigned,
			Message:   fmt.Sprintf("You have been assigned to task %q", task.Title),
			EntityRef: models.EntityRef{Type: models.EntityTask, ID: task.ID},
		})
	}
}

// TaskDeleted records deletion of a task.
func (rec *Recorder) TaskDeleted(ctx context.Context, actor primitive.ObjectID, task models.Task) {
	rec.Activity(ctx, models.ActivityLog{
		User:        actor,
		Action:      models.ActionTaskDeleted,
		EntityRef:   models.EntityRef{Type: models.EntityTask, ID: task.ID},
		EntityName:  task.Title,
		Description: fmt.Sprintf("deleted task %q", task.Title),
	})
}

// CommentAdded records a comment and delivers mention notifications.
// The comment author is never notified about their own mention. The
// notification carries the commented entity's ref (the task/project
// the comment annotates), not the comment's own id: comments have no
// retrieval-by-id route, so a comment ref would be a dead end for the
// recipient.
func (rec *Recorder) CommentAdded(ctx context.Context, comment models.Comment, entityName string) {
	rec.Activity(ctx, models.ActivityLog{
		User:        comment.Author,
		Action:      models.ActionCommentAdded,
		EntityRef:   comment.EntityRef,
		EntityName:  entityName,
		Description: "added a comment",
	})
	for _, mentioned := range comment.Mentions {
		if mentioned == comment.Author {
			continue
		}
		rec.Notify(ctx, models.Notification{
			Recipient: mentioned,
			Type:      models.NotifyMention,
			Message:   "You were mentioned in a comment",
			EntityRef: comment.EntityRef,
		})
	}
}

// FileUploaded records a file attachment.
func (rec *Recorder) FileUploaded(ctx context.Context, file models.File) {
	rec.Activity(ctx, models.ActivityLog{
		User:        file.UploadedBy,
		Action:      models.ActionFileUploaded,
		EntityRef:   file.EntityRef,
		EntityName:  file.FileName,
		Description: fmt.Sprintf("uploaded file %q", file.FileName),
	})
}

// TimeLogged records hours logged against a task.
func (rec *Recorder) TimeLogged(ctx context.Context, entry models.TimeEntry, taskTitle string) {
	rec.Activity(ctx, models.ActivityLog{
		User:        entry.User,
		Action:      models.ActionTimeLogged,
		EntityRef:   models.EntityRef{Type: models.EntityTask, ID: entry.Task},
		EntityName:  taskTitle,
		Description: fmt.Sprintf("logged %.2f hours on task %q", entry.Hours, taskTitle),
	})
}
