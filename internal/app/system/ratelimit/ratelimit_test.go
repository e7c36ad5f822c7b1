// internal/app/system/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d blocked before limit", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("attempt over limit allowed")
	}
	if !l.Allow("other") {
		t.Error("separate key blocked by another key's window")
	}
}

func TestLimiterReset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second attempt allowed before reset")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("attempt blocked after reset")
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"x-forwarded-for first", "1.2.3.4, 5.6.7.8", "", "9.9.9.9:1234", "1.2.3.4"},
		{"x-real-ip", "", "5.6.7.8", "9.9.9.9:1234", "5.6.7.8"},
		{"remote addr strips port", "", "", "9.9.9.9:1234", "9.9.9.9"},
		{"remote addr without port", "", "", "9.9.9.9", "9.9.9.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoginLimiterPerEmail(t *testing.T) {
	ll := NewLoginLimiter(10, time.Minute)

	var blocked bool
	for i := 0; i < 6; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = "1.2.3.4:1000"
		ok, _ := ll.Check(r, "Alice@Example.com")
		if !ok {
			blocked = true
			break
		}
	}
	if !blocked {
		t.Fatal("per-email limit never triggered")
	}

	ll.ResetEmail("alice@example.com")
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	r.RemoteAddr = "1.2.3.4:1000"
	if ok, msg := ll.Check(r, "alice@example.com"); !ok {
		t.Errorf("blocked after ResetEmail: %s", msg)
	}
}
