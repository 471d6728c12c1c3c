package registration

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/wayfarer-app/wayfarer/internal/logging"
	"github.com/wayfarer-app/wayfarer/internal/models"
	"github.com/wayfarer-app/wayfarer/internal/upload"
)

// SessionSource provides read-only session snapshots. The session
// manager satisfies it; registration never mutates the session.
type SessionSource interface {
	Current() models.Session
}

// BatchRunner drains a batch of files to terminal outcomes. The upload
// pipeline satisfies it.
type BatchRunner interface {
	Run(ctx context.Context, files []models.SourceFile) []models.TaskOutcome
}

// Form carries the traveller details entered by the user.
type Form struct {
	FirstName   string
	LastName    string
	Description string
	DaysInCity  int
	Cities      []string
}

// Service is the traveller registration orchestrator.
type Service struct {
	sessions SessionSource
	batch    BatchRunner
	uploader upload.Uploader
	records  RecordClient
	logger   logging.Logger

	inFlight atomic.Bool

	// now is a test seam for the clock.
	now func() time.Time
}

func NewService(sessions SessionSource, batch BatchRunner, uploader upload.Uploader, records RecordClient, logger logging.Logger) *Service {
	return &Service{
		sessions: sessions,
		batch:    batch,
		uploader: uploader,
		records:  records,
		logger:   logger,
		now:      time.Now,
	}
}

// Register uploads the attached files and writes the traveller record.
//
// Any per-file failure aborts the submission before the remote write and
// surfaces a BatchError naming every failed file; blobs that did reach
// storage before the abort are deleted best-effort. The record write
// itself is a single full-replace call keyed by the session's user id.
func (s *Service) Register(ctx context.Context, form Form, files []models.SourceFile) (*models.Traveller, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRegistrationInFlight
	}
	defer s.inFlight.Store(false)

	sess := s.sessions.Current()
	if !sess.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	outcomes := s.batch.Run(ctx, files)

	var batchErr BatchError
	urls := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Succeeded() {
			urls = append(urls, o.URL)
			continue
		}
		batchErr.Failed = append(batchErr.Failed, o.Filename)
		batchErr.Errs = append(batchErr.Errs, o.Err)
	}

	if len(batchErr.Failed) > 0 {
		s.cleanupOrphans(ctx, outcomes)
		return nil, &batchErr
	}

	traveller := models.Traveller{
		ID:           sess.UserID,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Description:  form.Description,
		DaysInCity:   form.DaysInCity,
		Cities:       form.Cities,
		FileURLs:     urls,
		RegisteredAt: s.now(),
	}

	if err := s.records.Put(ctx, sess.Token, traveller); err != nil {
		return nil, &WriteError{Err: err}
	}

	s.logger.Info(ctx, "traveller registered", "user_id", sess.UserID, "files", len(urls))
	return &traveller, nil
}

// cleanupOrphans deletes blobs that reached storage in a submission that
// is being aborted. Cleanup failure is logged and never fatal: the
// submission already failed for its own reason.
func (s *Service) cleanupOrphans(ctx context.Context, outcomes []models.TaskOutcome) {
	for _, o := range outcomes {
		if !o.Succeeded() {
			continue
		}
		if err := s.uploader.Delete(ctx, o.Key); err != nil {
			s.logger.Warn(ctx, "orphan cleanup failed", "key", o.Key, "error", err)
		}
	}
}
