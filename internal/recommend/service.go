// Package recommend runs one recommendation: geocode the address, derive a
// query from the taste profile, search, and clean the results.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hoanghai1803/tastemap/internal/metrics"
	"github.com/hoanghai1803/tastemap/internal/models"
	"github.com/hoanghai1803/tastemap/internal/naver"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

// ErrMissingAddress is returned when a recommendation is requested without
// an address.
var ErrMissingAddress = errors.New("address is required")

// Previewer attaches page excerpts to places.
type Previewer interface {
	Attach(ctx context.Context, places []models.PlaceResult) []models.PlaceResult
}

// RunRecorder stores a history row for each successful recommendation.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.RecommendationRun) (int64, error)
}

// Settings are the search knobs taken from configuration.
type Settings struct {
	Query        taste.QueryOptions
	Display      int
	Sort         string
	RadiusMeters int
	UseGeocoding bool
}

// Service runs recommendations. Geocoder may be nil when geocoding is off;
// Previewer and Recorder are optional.
type Service struct {
	Geocoder  naver.Geocoder
	Searcher  naver.PlaceSearcher
	Previewer Previewer
	Recorder  RunRecorder
	Settings  Settings
	now       func() time.Time
}

// NewService creates a Service. Pass nil for optional collaborators.
func NewService(geo naver.Geocoder, search naver.PlaceSearcher, previewer Previewer, recorder RunRecorder, settings Settings) *Service {
	return &Service{
		Geocoder:  geo,
		Searcher:  search,
		Previewer: previewer,
		Recorder:  recorder,
		Settings:  settings,
		now:       time.Now,
	}
}

// Request is one recommend action.
type Request struct {
	SessionID    string
	ProfileTitle string
	Profile      models.PreferenceProfile
	Address      string
	// Order overrides the configured query order when set.
	Order taste.QueryOrder
}

// Recommend geocodes the address, builds the query and searches, in that
// order. The first failing call aborts the run; nothing is retried.
func (s *Service) Recommend(ctx context.Context, req Request) (rec *models.Recommendation, err error) {
	defer func() { metrics.RecordRecommendation(err == nil) }()

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, ErrMissingAddress
	}

	var coords *models.Coordinates
	if s.Settings.UseGeocoding && s.Geocoder != nil {
		c, err := s.Geocoder.Geocode(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("geocoding address: %w", err)
		}
		coords = &c
		slog.Info("geocoded address", "address", address, "longitude", c.Longitude, "latitude", c.Latitude)
	}

	opts := s.Settings.Query
	if req.Order != "" {
		opts.Order = req.Order
	}
	query := taste.BuildQuery(req.Profile, address, opts)

	places, err := s.Searcher.SearchPlaces(ctx, naver.SearchRequest{
		Query:        query,
		Near:         coords,
		RadiusMeters: s.Settings.RadiusMeters,
		Display:      s.Settings.Display,
		Sort:         s.Settings.Sort,
	})
	if err != nil {
		return nil, fmt.Errorf("searching places: %w", err)
	}
	places = taste.NormalizePlaces(places)
	slog.Info("found places", "query", query, "count", len(places))

	if s.Previewer != nil && len(places) > 0 {
		places = s.Previewer.Attach(ctx, places)
	}

	if s.Recorder != nil && req.SessionID != "" {
		run := &models.RecommendationRun{
			SessionID:    req.SessionID,
			ProfileTitle: req.ProfileTitle,
			Address:      address,
			Query:        query,
			ResultCount:  len(places),
		}
		if _, err := s.Recorder.RecordRun(ctx, run); err != nil {
			slog.Warn("failed to record recommendation run", "session", req.SessionID, "error", err)
		}
	}

	return &models.Recommendation{
		Address:     address,
		Query:       query,
		Coordinates: coords,
		Places:      places,
		CreatedAt:   s.now(),
	}, nil
}
