// internal/app/policy/teampolicy/teampolicy.go
package teampolicy

import (
	"github.com/taskhive/taskhive/internal/app/policy/decision"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// DeniedMessage is the fixed message returned on any team access
// denial. Callers must not vary it per check: a uniform message avoids
// leaking which predicate failed.
const DeniedMessage = "Access denied to this team"

// CanView reports whether the user may read the team. Admins always
// can; otherwise the user must be the owner or a member.
func CanView(u *auth.Principal, team models.Team) decision.Decision {
	if u == nil {
		return decision.Deny(DeniedMessage)
	}
	if u.Role == models.RoleAdmin {
		return decision.Allow()
	}
	if team.Owner == u.ID {
		return decision.Allow()
	}
	if team.HasMember(u.ID) {
		return decision.Allow()
	}
	return decision.Deny(DeniedMessage)
}

// CanManage reports whether the user may mutate the team (update,
// delete, add or remove members). Owner only, plus the admin bypass.
func CanManage(u *auth.Principal, team models.Team) decision.Decision {
	if u == nil {
		return decision.Deny(DeniedMessage)
	}
	if u.Role == models.RoleAdmin {
		return decision.Allow()
	}
	if team.Owner == u.ID {
		return decision.Allow()
	}
	return decision.Deny(DeniedMessage)
}
