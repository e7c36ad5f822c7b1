// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Admins bypass all ownership checks; the remaining roles
// carry no implicit privileges and matter only for UI and reporting.
const (
	RoleAdmin          = "ADMIN"
	RoleProjectManager = "PROJECT_MANAGER"
	RoleMember         = "MEMBER"
	RoleClient         = "CLIENT"
)

// ValidRole reports whether role is one of the recognized user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProjectManager, RoleMember, RoleClient:
		return true
	}
	return false
}

// User represents an account. Accounts are never hard-deleted;
// deactivation sets IsActive=false and blocks authentication.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"is_active" json:"isActive"`
	IsVerified   bool               `bson:"is_email_verified" json:"isEmailVerified"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
