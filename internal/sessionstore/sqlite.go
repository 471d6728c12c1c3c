package sessionstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/wayfarer-app/wayfarer/internal/dbx"
)

// Keys of the session fields inside the kv table.
const (
	keyToken     = "token"
	keyUserID    = "user_id"
	keyUserName  = "user_name"
	keyUserEmail = "user_email"
	keyExpiresAt = "expires_at"
)

// SQLiteStore keeps the session record in the local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) set(ctx context.Context, q dbx.DBTX, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

// Load reads the persisted record. A record without a token counts as
// absent: the token is the field whose presence defines a session.
func (s *SQLiteStore) Load(ctx context.Context) (*Record, error) {
	token, ok, err := s.get(ctx, s.db, keyToken)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, nil
	}

	rec := Record{Token: token}

	if rec.UserID, _, err = s.get(ctx, s.db, keyUserID); err != nil {
		return nil, err
	}
	if rec.UserName, _, err = s.get(ctx, s.db, keyUserName); err != nil {
		return nil, err
	}
	if rec.UserEmail, _, err = s.get(ctx, s.db, keyUserEmail); err != nil {
		return nil, err
	}

	raw, ok, err := s.get(ctx, s.db, keyExpiresAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("session record has token but no expiry")
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid session expiry %q: %w", raw, err)
	}
	rec.ExpiresAt = time.UnixMilli(millis)

	return &rec, nil
}

// Save writes all five fields in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, keyToken, rec.Token); err != nil {
			return err
		}
		if err := s.set(ctx, tx, keyUserID, rec.UserID); err != nil {
			return err
		}
		if err := s.set(ctx, tx, keyUserName, rec.UserName); err != nil {
			return err
		}
		if err := s.set(ctx, tx, keyUserEmail, rec.UserEmail); err != nil {
			return err
		}
		return s.set(ctx, tx, keyExpiresAt, strconv.FormatInt(rec.ExpiresAt.UnixMilli(), 10))
	})
}

// Clear removes every session field. Clearing an empty store is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
