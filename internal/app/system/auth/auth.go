// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Principal & context plumbing                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// Principal is the authenticated user injected into r.Context().
// It is re-fetched from the users collection on every request, so
// deactivation and role changes take effect immediately.
type Principal struct {
	ID    primitive.ObjectID
	Name  string
	Email string
	Role  string
}

// UserFetcher resolves a token subject to a live Principal.
// Implementations return nil when the user is unknown or deactivated.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *Principal
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*Principal, bool) {
	u, ok := r.Context().Value(currentUserKey).(*Principal)
	return u, ok
}

// WithTestUser injects a Principal directly into the request context,
// bypassing token verification. Test helper only.
func WithTestUser(r *http.Request, u *Principal) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Manager: token issue & verify                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// Manager issues and verifies bearer tokens and carries the middleware
// that loads the current user.
type Manager struct {
	secret  []byte
	expiry  time.Duration
	log     *zap.Logger
	fetcher UserFetcher
}

// NewManager builds a Manager. The secret must be non-empty; short
// secrets are allowed but logged.
func NewManager(secret string, expiry time.Duration, logger *zap.Logger) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), expiry: expiry, log: logger}, nil
}

// SetUserFetcher wires the store-backed fetcher after the DB is up.
// Must be called before LoadUser middleware sees traffic.
func (m *Manager) SetUserFetcher(f UserFetcher) {
	m.fetcher = f
}

// IssueToken signs a token for the given user.
func (m *Manager) IssueToken(u models.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// subject verifies the token and returns its subject (user id hex).
func (m *Manager) subject(tokenString string) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return m.secret, nil
		})
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadUser injects the user into context when the request carries a
// valid bearer token. Requests without a token, with a bad token, or
// whose user no longer resolves continue anonymously; RequireSignedIn
// is where enforcement happens.
func (m *Manager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" || m.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		sub, err := m.subject(raw)
		if err != nil {
			m.log.Debug("rejected bearer token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if u := m.fetcher.FetchUser(r.Context(), sub); u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadUser).
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
	})
}

// RequireRole ensures the current user holds one of the allowed roles.
// Role comparison is case-insensitive.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToUpper(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if _, has := set[strings.ToUpper(u.Role)]; !has {
				httpjson.Error(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
