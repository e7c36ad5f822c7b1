package files

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{"weird name (1).txt", "weird_name__1_.txt"},
		{"", "file"},
		{"///", "file"},
	}
	for _, c := range cases {
		if got := sanitizeFilename(c.in); got != c.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeFilename_TruncatesKeepingExtension(t *testing.T) {
	long := strings.Repeat("a", 200) + ".txt"
	got := sanitizeFilename(long)
	if len(got) != 100 {
		t.Fatalf("expected 100 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, ".txt") {
		t.Errorf("expected extension preserved, got %q", got)
	}
}
