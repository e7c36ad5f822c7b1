// internal/app/policy/taskpolicy/taskpolicy.go
package taskpolicy

import (
	"github.com/taskhive/taskhive/internal/app/policy/decision"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// DeniedMessage is the fixed message returned on any task access
// denial.
const DeniedMessage = "Access denied to this task"

// CanAccess reports whether the user may read or mutate the task.
// Admins always can; otherwise the assignee, the creator, the owner of
// the enclosing project, or any project member.
func CanAccess(u *auth.Principal, task models.Task, project models.Project) decision.Decision {
	if u == nil {
		return decision.Deny(DeniedMessage)
	}
	if u.Role == models.RoleAdmin {
		return decision.Allow()
	}
	if task.AssignedTo != nil && *task.AssignedTo == u.ID {
		return decision.Allow()
	}
	if task.CreatedBy == u.ID {
		return decision.Allow()
	}
	if project.Owner == u.ID {
		return decision.Allow()
	}
	if project.HasMember(u.ID) {
		return decision.Allow()
	}
	return decision.Deny(DeniedMessage)
}
