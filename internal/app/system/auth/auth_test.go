// internal/app/system/auth/auth_test.go
package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, expiry time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(testSecret, expiry, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t, time.Hour)

	u := models.User{ID: primitive.NewObjectID()}
	tok, err := m.IssueToken(u)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	sub, err := m.subject(tok)
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	if sub != u.ID.Hex() {
		t.Errorf("subject = %q, want %q", sub, u.ID.Hex())
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := newTestManager(t, time.Hour)
	m.expiry = -time.Minute

	tok, err := m.IssueToken(models.User{ID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := m.subject(tok); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	m := newTestManager(t, time.Hour)
	tok, err := m.IssueToken(models.User{ID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	other, err := NewManager("ffffffffffffffffffffffffffffffff", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := other.subject(tok); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestEmptySecretRefused(t *testing.T) {
	if _, err := NewManager("", time.Hour, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		if got := bearerToken(r); got != tc.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestRequireSignedIn(t *testing.T) {
	var called bool
	h := RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler should not run for anonymous request")
	}

	rec = httptest.NewRecorder()
	r := WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil), &Principal{
		ID:   primitive.NewObjectID(),
		Role: models.RoleMember,
	})
	h.ServeHTTP(rec, r)
	if !called {
		t.Error("handler should run for signed-in request")
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	r := WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil), &Principal{
		ID:   primitive.NewObjectID(),
		Role: models.RoleMember,
	})
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member: status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil), &Principal{
		ID:   primitive.NewObjectID(),
		Role: models.RoleAdmin,
	})
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusNoContent {
		t.Errorf("admin: status = %d, want 204", rec.Code)
	}
}
