// internal/app/system/inputval/inputval.go

// Package inputval validates request fields before they reach the
// stores.
package inputval

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s is a plausible email address. It
// rejects display-name forms ("Name <a@b>"), leading or trailing dots,
// and consecutive dots, which mail.ParseAddress tolerates.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	local, domain, found := strings.Cut(s, "@")
	if !found || local == "" || domain == "" {
		return false
	}
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TrimmedNonEmpty trims s and reports whether anything remains.
func TrimmedNonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
