package models

import "time"

// Coordinates is a WGS84 position.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// PlaceResult is one place record returned by the place-search endpoint.
// Text fields may contain markup until normalized.
type PlaceResult struct {
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	RoadAddress string  `json:"road_address,omitempty"`
	Link        string  `json:"link"`
	Telephone   string  `json:"telephone"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Rating      string  `json:"rating,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Excerpt     string  `json:"excerpt,omitempty"`
}

// HasLocation reports whether the place carries usable coordinates.
func (p PlaceResult) HasLocation() bool {
	return p.Longitude != 0 || p.Latitude != 0
}

// Recommendation is the outcome of one recommend action.
type Recommendation struct {
	Address     string        `json:"address"`
	Query       string        `json:"query"`
	Coordinates *Coordinates  `json:"coordinates,omitempty"`
	Places      []PlaceResult `json:"places"`
	CreatedAt   time.Time     `json:"created_at"`
}
