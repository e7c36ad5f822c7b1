// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied
// text before it is stored. Comment bodies may carry light formatting;
// names and descriptions are plain text.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	// ugc keeps the formatting a comment is allowed to carry:
	// paragraphs, emphasis, lists, links, code. Scripts, event
	// handlers, and javascript: URLs are removed.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup.
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans rich text, keeping safe formatting tags.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Strip removes all HTML, leaving plain text. Used for names,
// titles, and descriptions.
func Strip(s string) string {
	return strict.Sanitize(s)
}
