// Package sessionstore persists the current session across process
// restarts. It is a small key/value table in the local sqlite database;
// the session manager is its only writer.
package sessionstore

import (
	"context"
	"time"

	"github.com/wayfarer-app/wayfarer/internal/models"
)

// Record is the durable mirror of an authenticated session. It is written
// in one transaction when a session begins and cleared in one statement
// when it ends, so the store and the in-memory session never disagree for
// longer than one synchronous write.
type Record struct {
	Token     string
	UserID    string
	UserName  string
	UserEmail string
	ExpiresAt time.Time
}

// Expired reports whether the record's expiry instant has passed.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Session converts the record into an authenticated in-memory session.
func (r Record) Session() models.Session {
	return models.Session{
		Token:     r.Token,
		UserID:    r.UserID,
		UserName:  r.UserName,
		UserEmail: r.UserEmail,
		ExpiresAt: r.ExpiresAt,
		State:     models.StateAuthenticated,
	}
}

// Store is the persisted session boundary.
//
// Load returns (nil, nil) when no record exists. Save replaces any
// previous record atomically. Clear is idempotent.
type Store interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}
