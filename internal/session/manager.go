// Package session owns the client session lifecycle: credential exchange
// on login, rehydration from the persisted store on start, timer-driven
// auto-expiry, and explicit logout. The Manager is the only writer of the
// session and of the persisted session store; every other component reads
// snapshots.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wayfarer-app/wayfarer/internal/exchange"
	"github.com/wayfarer-app/wayfarer/internal/logging"
	"github.com/wayfarer-app/wayfarer/internal/models"
	"github.com/wayfarer-app/wayfarer/internal/sessionstore"
)

var (
	// ErrLoginInFlight is returned when Login is called while another
	// Login on the same manager has not finished.
	ErrLoginInFlight = errors.New("login already in progress")
)

// Manager orchestrates session state transitions.
//
// The expiry timer is a field of the manager, not package state, so
// independent managers (one per test, for instance) never interfere.
// Every transition that ends a session cancels the timer before
// optionally arming a new one.
type Manager struct {
	exchange exchange.Client
	store    sessionstore.Store
	logger   logging.Logger

	mu            sync.Mutex
	session       models.Session
	timer         *time.Timer
	timerGen      uint64
	didAutoLogout bool
	subscribers   []chan models.Session

	// now is a test seam for the clock.
	now func() time.Time
}

func NewManager(ex exchange.Client, store sessionstore.Store, logger logging.Logger) *Manager {
	return &Manager{
		exchange: ex,
		store:    store,
		logger:   logger,
		session:  models.Session{State: models.StateAnonymous},
		now:      time.Now,
	}
}

// Current returns a read-only snapshot of the session.
func (m *Manager) Current() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// DidAutoLogout reports whether the last session ended by timer expiry
// rather than by user action. It resets on the next successful Login or
// Rehydrate.
func (m *Manager) DidAutoLogout() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.didAutoLogout
}

// Subscribe returns a channel that receives a session snapshot after
// every transition. Slow subscribers miss intermediate snapshots rather
// than blocking the manager.
func (m *Manager) Subscribe() <-chan models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan models.Session, 8)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

func (m *Manager) notifyLocked() {
	for _, ch := range m.subscribers {
		select {
		case ch <- m.session:
		default:
		}
	}
}

// cancelTimerLocked stops any pending expiry timer and invalidates
// callbacks that may already be in flight. Callers must hold mu.
func (m *Manager) cancelTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.timerGen++
}

// armTimerLocked schedules auto-expiry after d. Callers must hold mu and
// must have called cancelTimerLocked first.
func (m *Manager) armTimerLocked(d time.Duration) {
	gen := m.timerGen
	m.timer = time.AfterFunc(d, func() {
		m.autoExpire(gen)
	})
}

// Login exchanges credentials for a token and, on success, persists the
// session and schedules its expiry. On failure the session returns to
// anonymous and the error carries one of the exchange sentinels. Logging
// in over a live session replaces it: the previous record and timer are
// discarded before the exchange, even if the new exchange then fails.
func (m *Manager) Login(ctx context.Context, email, password string, intent exchange.Intent) (models.Session, error) {
	m.mu.Lock()
	if m.session.State == models.StateAuthenticating {
		m.mu.Unlock()
		return models.Session{}, ErrLoginInFlight
	}

	// A new login retires any live session before the handshake starts:
	// the Authenticating session has no token, so the durable record and
	// the old expiry timer must be gone before it becomes visible.
	if err := m.store.Clear(ctx); err != nil {
		m.mu.Unlock()
		return models.Session{}, err
	}
	m.cancelTimerLocked()

	m.session = models.Session{State: models.StateAuthenticating, UserEmail: email}
	m.notifyLocked()
	m.mu.Unlock()

	grant, err := m.exchange.Exchange(ctx, exchange.Request{
		Intent:   intent,
		Email:    email,
		Password: password,
	})
	if err != nil {
		m.mu.Lock()
		m.session = models.Session{State: models.StateAnonymous}
		m.notifyLocked()
		m.mu.Unlock()
		m.logger.Warn(ctx, "login failed", "email", email)
		return models.Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec := sessionstore.Record{
		Token:     grant.Token,
		UserID:    grant.UserID,
		UserName:  grant.DisplayName,
		UserEmail: grant.Email,
		ExpiresAt: m.now().Add(grant.Lifetime),
	}

	// The durable record is written before the session becomes visible as
	// authenticated, so the two can never disagree about token presence.
	if err := m.store.Save(ctx, rec); err != nil {
		m.session = models.Session{State: models.StateAnonymous}
		m.notifyLocked()
		return models.Session{}, err
	}

	m.cancelTimerLocked()
	m.armTimerLocked(grant.Lifetime)

	m.session = rec.Session()
	m.didAutoLogout = false
	m.notifyLocked()

	m.logger.Info(ctx, "session started", "user_id", grant.UserID, "expires_at", rec.ExpiresAt)
	return m.session, nil
}

// Rehydrate restores the session from the persisted store at process
// start. It never contacts the credential exchange: a record with a
// future expiry becomes an authenticated session directly, a stale or
// missing record leaves the manager anonymous.
func (m *Manager) Rehydrate(ctx context.Context) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.store.Load(ctx)
	if err != nil {
		return models.Session{}, err
	}

	if rec == nil {
		m.session = models.Session{State: models.StateAnonymous}
		return m.session, nil
	}

	if rec.Expired(m.now()) {
		if err := m.store.Clear(ctx); err != nil {
			return models.Session{}, err
		}
		m.session = models.Session{State: models.StateAnonymous}
		m.notifyLocked()
		m.logger.Info(ctx, "discarded stale session", "user_id", rec.UserID)
		return m.session, nil
	}

	m.cancelTimerLocked()
	m.armTimerLocked(rec.ExpiresAt.Sub(m.now()))

	m.session = rec.Session()
	m.didAutoLogout = false
	m.notifyLocked()

	m.logger.Info(ctx, "session rehydrated", "user_id", rec.UserID, "expires_at", rec.ExpiresAt)
	return m.session, nil
}

// Logout cancels the expiry timer, clears the persisted record, and
// returns the session to anonymous. Logging out with no active session is
// a no-op, not an error.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelTimerLocked()

	if err := m.store.Clear(ctx); err != nil {
		return err
	}

	if m.session.State != models.StateAnonymous {
		m.logger.Info(ctx, "session ended", "user_id", m.session.UserID)
	}
	m.session = models.Session{State: models.StateAnonymous}
	m.notifyLocked()
	return nil
}

// autoExpire is the timer callback. gen identifies the timer that was
// armed; a callback from a timer that has since been canceled is ignored,
// so a stale timer can never fire against a newer session.
func (m *Manager) autoExpire(gen uint64) {
	ctx := context.Background()

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.timerGen {
		return
	}
	m.timer = nil

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error(ctx, "failed to clear expired session", "error", err)
	}

	m.logger.Info(ctx, "session expired", "user_id", m.session.UserID)
	m.session = models.Session{State: models.StateExpired}
	m.didAutoLogout = true
	m.notifyLocked()
}
