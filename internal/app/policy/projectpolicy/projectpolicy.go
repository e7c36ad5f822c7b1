// internal/app/policy/projectpolicy/projectpolicy.go
package projectpolicy

import (
	"github.com/taskhive/taskhive/internal/app/policy/decision"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// DeniedMessage is the fixed message returned on any project access
// denial.
const DeniedMessage = "Access denied to this project"

// CanView reports whether the user may read the project. Admins
// always can; otherwise the project owner, a project member, or any
// member of the owning team. The team is loaded by the caller so the
// check stays pure.
func CanView(u *auth.Principal, project models.Project, team models.Team) decision.Decision {
	if u == nil {
		return decision.Deny(DeniedMessage)
	}
	if u.Role == models.RoleAdmin {
		return decision.Allow()
	}
	if project.Owner == u.ID {
		return decision.Allow()
	}
	if project.HasMember(u.ID) {
		return decision.Allow()
	}
	if team.Owner == u.ID || team.HasMember(u.ID) {
		return decision.Allow()
	}
	return decision.Deny(DeniedMessage)
}

// CanEdit reports whether the user may update the project's fields.
// Owner or project member, plus the admin bypass.
func CanEdit(u *auth.Principal, project models.Project) decision.Decision {
	if u == nil {
		return decision.Deny(DeniedMessage)
	}
	if u.Role == models.RoleAdmin {
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

// CanAdminister reports whether the user may delete the project or
// change its member list. Owner only, plus the admin bypass.
func CanAdminister(u *auth.Principal, project models.Project) decision.Decision {
	if u == nil {
		return decision.Deny(DeniedMessage)
	}
	if u.Role == models.RoleAdmin {
		return decision.Allow()
	}
	if project.Owner == u.ID {
		return decision.Allow()
	}
	return decision.Deny(DeniedMessage)
}
