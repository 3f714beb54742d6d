package storage

import (
	"context"
	"fmt"

	"github.com/hoanghai1803/tastemap/internal/models"
)

// RecordRun inserts a recommendation run and returns its ID.
func (s *Store) RecordRun(ctx context.Context, run *models.RecommendationRun) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recommendation_runs
			(session_id, profile_title, address, query, result_count)
		 VALUES (?, ?, ?, ?, ?)`,
		run.SessionID, run.ProfileTitle, run.Address, run.Query, run.ResultCount,
	)
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting run id: %w", err)
	}
	return id, nil
}

// RecentRuns returns the session's most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, sessionID string, limit int) ([]models.RecommendationRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, profile_title, address, query, result_count, created_at
		 FROM recommendation_runs
		 WHERE session_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent runs: %w", err)
	}
	defer rows.Close()

	runs := []models.RecommendationRun{}
	for rows.Next() {
		var (
			run       models.RecommendationRun
			createdAt string
		)
		if err := rows.Scan(
			&run.ID, &run.SessionID, &run.ProfileTitle, &run.Address,
			&run.Query, &run.ResultCount, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		run.CreatedAt = parseTime(createdAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, nil
}
