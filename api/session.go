/*
session.go - Mock authentication and session tracking

PURPOSE:
  Provides a demo-grade login flow: any directory email paired with the
  shared password "password" signs in. Issued tokens are held in memory
  and resolved to an hr.Identity by middleware on every request.

SECURITY NOTE:
  This is intentionally NOT production authentication. There is no
  hashing, no expiry, and no persistence. Replace with a real identity
  provider before exposing the API beyond a demo.

SEE ALSO:
  - server.go: Where the middleware is mounted
  - handlers.go: Login/Logout endpoints
*/
package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/hrms-engine/hr"
)

// MockPassword is the shared demo credential accepted for every account.
const MockPassword = "password"

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the authenticated identity stored in the request
// context, or false when the request is unauthenticated.
func IdentityFrom(ctx context.Context) (hr.Identity, bool) {
	id, ok := ctx.Value(identityKey).(hr.Identity)
	return id, ok
}

// Sessions maps bearer tokens to identities. Safe for concurrent use.
type Sessions struct {
	mu     sync.RWMutex
	tokens map[string]hr.Identity
}

// NewSessions creates an empty session table.
func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[string]hr.Identity)}
}

// Issue creates a fresh token for the identity.
func (s *Sessions) Issue(id hr.Identity) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = id
	s.mu.Unlock()
	return token
}

// Resolve looks up the identity behind a token.
func (s *Sessions) Resolve(token string) (hr.Identity, bool) {
	s.mu.RLock()
	id, ok := s.tokens[token]
	s.mu.RUnlock()
	return id, ok
}

// Revoke invalidates a token. Revoking an unknown token is a no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Authenticate is middleware that resolves the Authorization header and
// stores the identity in the request context. Requests without a valid
// bearer token are rejected with 401.
func (s *Sessions) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}
		id, ok := s.Resolve(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired session", nil)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireDecider is middleware that rejects callers whose role cannot
// approve or reject requests (anyone other than admin and HR).
func RequireDecider(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || !id.Role.CanDecide() {
			writeError(w, http.StatusForbidden, "Requires admin or HR role", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}
