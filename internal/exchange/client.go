// Package exchange wraps the remote token-issuing endpoint. It turns raw
// wire failures into the fixed authentication error taxonomy at the
// boundary, so callers never branch on transport detail.
package exchange

import (
	"context"
	"errors"
	"time"
)

// Intent selects between authenticating an existing account and creating
// a new one. The endpoint distinguishes the two modes itself; the request
// shape is otherwise identical.
type Intent string

const (
	IntentLogin  Intent = "login"
	IntentSignup Intent = "signup"
)

// Request carries the credentials submitted by the user.
type Request struct {
	Intent   Intent
	Email    string
	Password string
}

// Grant is a successful credential exchange: a bearer token plus the
// identity it was issued for and how long it stays valid.
type Grant struct {
	Token       string
	UserID      string
	DisplayName string
	Email       string
	Lifetime    time.Duration
}

// Client is the credential exchange boundary.
//
// Exchange must return one of the sentinel errors below (possibly wrapped)
// on failure; it never returns a raw transport error.
type Client interface {
	Exchange(ctx context.Context, req Request) (*Grant, error)
}

// Sentinel authentication errors. Match with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrExchangeFailed     = errors.New("credential exchange failed")
)

// UserMessage maps an authentication error to one of exactly three
// human-readable messages, so wire detail never leaks to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "The email or password is incorrect."
	case errors.Is(err, ErrTooManyAttempts):
		return "Too many attempts. Please try again later."
	default:
		return "Could not sign you in. Please try again."
	}
}
