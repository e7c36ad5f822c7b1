// internal/app/system/mentions/mentions.go

// Package mentions extracts @username tokens from comment text.
package mentions

import "regexp"

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Extract returns the usernames mentioned in text, in order of first
// appearance, without duplicates. The leading @ is stripped.
//
// TODO: resolve extracted usernames to user IDs once usernames are
// unique; until then callers rely on the explicit mentions array in
// the request body for notification delivery.
func Extract(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
