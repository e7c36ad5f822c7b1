// internal/app/system/paging/paging_test.go
package paging

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseLimit(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", DefaultLimit},
		{"limit=10", 10},
		{"limit=0", DefaultLimit},
		{"limit=-5", DefaultLimit},
		{"limit=abc", DefaultLimit},
		{"limit=9999", MaxLimit},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		if got := ParseLimit(r); got != tc.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestTrim(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	if !Trim(&rows, 3) {
		t.Error("expected hasMore when one extra row was fetched")
	}
	if len(rows) != 3 {
		t.Errorf("len = %d after trim, want 3", len(rows))
	}

	rows = []int{1, 2}
	if Trim(&rows, 3) {
		t.Error("expected no more pages when under limit")
	}
	if len(rows) != 2 {
		t.Errorf("len = %d, want 2", len(rows))
	}
}
