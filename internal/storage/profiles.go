package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/hoanghai1803/tastemap/internal/models"
)

// currentTitle is the reserved title of a session's working profile.
const currentTitle = ""

// GetCurrentProfile returns the session's working profile, or ErrNotFound if
// the form was never submitted.
func (s *Store) GetCurrentProfile(ctx context.Context, sessionID string) (models.PreferenceProfile, error) {
	np, err := s.getProfile(ctx, sessionID, currentTitle)
	if err != nil {
		return models.PreferenceProfile{}, err
	}
	return np.Profile, nil
}

// SaveCurrentProfile overwrites the session's working profile.
func (s *Store) SaveCurrentProfile(ctx context.Context, sessionID string, p models.PreferenceProfile) error {
	return s.upsertProfile(ctx, sessionID, models.NamedProfile{Title: currentTitle, Profile: p})
}

// SaveNamedProfile stores np under its title, replacing any profile with the
// same title in the session.
func (s *Store) SaveNamedProfile(ctx context.Context, sessionID string, np models.NamedProfile) error {
	if np.Title == currentTitle {
		return fmt.Errorf("saving named profile: title is required")
	}
	return s.upsertProfile(ctx, sessionID, np)
}

// GetNamedProfile returns the profile saved under title, or ErrNotFound.
func (s *Store) GetNamedProfile(ctx context.Context, sessionID, title string) (*models.NamedProfile, error) {
	if title == currentTitle {
		return nil, ErrNotFound
	}
	return s.getProfile(ctx, sessionID, title)
}

// ListNamedProfiles returns the session's named profiles in the order they
// were first saved.
func (s *Store) ListNamedProfiles(ctx context.Context, sessionID string) ([]models.NamedProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, profile_json, summary, updated_at
		 FROM profiles
		 WHERE session_id = ? AND title <> ''
		 ORDER BY created_at, rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.NamedProfile{}
	for rows.Next() {
		var (
			np        models.NamedProfile
			raw       string
			updatedAt string
		)
		if err := rows.Scan(&np.Title, &raw, &np.Summary, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning profile row: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &np.Profile); err != nil {
			return nil, fmt.Errorf("unmarshaling profile %q: %w", np.Title, err)
		}
		np.UpdatedAt = parseTime(updatedAt)
		profiles = append(profiles, np)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profile rows: %w", err)
	}
	return profiles, nil
}

func (s *Store) getProfile(ctx context.Context, sessionID, title string) (*models.NamedProfile, error) {
	var raw, updatedAt string
	np := models.NamedProfile{Title: title}
	err := s.db.QueryRowContext(ctx,
		`SELECT profile_json, summary, updated_at FROM profiles
		 WHERE session_id = ? AND title = ?`, sessionID, title,
	).Scan(&raw, &np.Summary, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting profile %q: %w", title, err)
	}

	if err := json.Unmarshal([]byte(raw), &np.Profile); err != nil {
		return nil, fmt.Errorf("unmarshaling profile %q: %w", title, err)
	}
	np.UpdatedAt = parseTime(updatedAt)
	return &np, nil
}

func (s *Store) upsertProfile(ctx context.Context, sessionID string, np models.NamedProfile) error {
	if sessionID == "" {
		return ErrNoSession
	}
	data, err := json.Marshal(np.Profile)
	if err != nil {
		return fmt.Errorf("marshaling profile %q: %w", np.Title, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (session_id, title, profile_json, summary, updated_at)
		 VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(session_id, title) DO UPDATE SET
			profile_json = excluded.profile_json,
			summary      = excluded.summary,
			updated_at   = excluded.updated_at`,
		sessionID, np.Title, string(data), np.Summary,
	)
	if err != nil {
		return fmt.Errorf("saving profile %q: %w", np.Title, err)
	}
	return nil
}
