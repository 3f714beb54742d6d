package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hoanghai1803/tastemap/internal/models"
)

// EnsureSession creates the session if it does not exist and bumps its
// last_seen_at otherwise.
func (s *Store) EnsureSession(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoSession
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id) VALUES (?)
		 ON CONFLICT(id) DO UPDATE SET last_seen_at = datetime('now')`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ensuring session %q: %w", id, err)
	}
	return nil
}

// GetSession returns a session by id, or ErrNotFound.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var createdAt, lastSeen string
	sess := models.Session{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, last_seen_at FROM sessions WHERE id = ?`, id,
	).Scan(&createdAt, &lastSeen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting session %q: %w", id, err)
	}
	sess.CreatedAt = parseTime(createdAt)
	sess.LastSeenAt = parseTime(lastSeen)
	return &sess, nil
}

// DeleteSession removes a session together with its profiles and runs.
// Deleting an unknown session is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session %q: %w", id, err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions not seen within ttl and returns how
// many were deleted.
func (s *Store) DeleteExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-ttl).Format(sqliteTimeLayout)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE last_seen_at < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting expired sessions: %w", err)
	}
	return n, nil
}
