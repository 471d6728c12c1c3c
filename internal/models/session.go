// Package models defines the entities shared across the Wayfarer client:
// the session, the traveller record, and upload task outcomes.
package models

import "time"

// SessionState is the lifecycle state of the current identity.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
	StateExpired        SessionState = "expired"
)

// Session is the in-memory representation of the current identity.
//
// Invariant: Token is non-empty iff State == StateAuthenticated, and
// ExpiresAt is non-zero iff Token is non-empty. The session is owned by
// the session manager; everything else receives read-only snapshots.
type Session struct {
	Token     string
	UserID    string
	UserName  string
	UserEmail string
	ExpiresAt time.Time
	State     SessionState
}

// Authenticated reports whether the session carries a live token.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Token != ""
}
