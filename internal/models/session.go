package models

import "time"

// Session owns one browser's current profile and named profiles.
type Session struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// RecommendationRun records an audit trail of each recommend action.
type RecommendationRun struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	ProfileTitle string    `json:"profile_title,omitempty"`
	Address      string    `json:"address"`
	Query        string    `json:"query"`
	ResultCount  int       `json:"result_count"`
	CreatedAt    time.Time `json:"created_at"`
}
