// internal/app/policy/decision/decision.go

// Package decision holds the result type shared by the access policy
// packages.
package decision

// Decision is the outcome of an access check. Reason carries the
// client-facing message when Allowed is false.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a negative decision with the given client-facing
// message.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
