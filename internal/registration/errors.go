// Package registration assembles and persists the traveller record:
// it checks the session, drives the upload pipeline over the attached
// files, and performs the single remote record write.
package registration

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAuthenticated is the fail-fast precondition error: no network
	// call is attempted without a session token.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRegistrationInFlight is returned when Register is called while a
	// previous submission on the same service has not finished.
	ErrRegistrationInFlight = errors.New("registration already in progress")
)

// BatchError aggregates every per-file failure of one submission. A
// submission with any failed file is aborted before the record write, so
// no partial file set is ever registered.
type BatchError struct {
	// Failed lists the names of every file that failed, in input order.
	Failed []string
	// Errs holds the corresponding per-file errors.
	Errs []error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("upload failed for %s", strings.Join(e.Failed, ", "))
}

func (e *BatchError) Unwrap() []error { return e.Errs }

// WriteError is a terminal failure of the remote record write. The write
// is a single full-replace call, so no partial record is left behind.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("registration write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
