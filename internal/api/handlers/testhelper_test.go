package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/hoanghai1803/tastemap/internal/config"
	"github.com/hoanghai1803/tastemap/internal/models"
	"github.com/hoanghai1803/tastemap/internal/naver"
	"github.com/hoanghai1803/tastemap/internal/recommend"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

const testSessionID = "22222222-2222-4222-8222-222222222222"

// newTestStore creates an in-memory SQLite store with migrations applied and
// the test session created. It registers a cleanup function to close the
// database when the test completes.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	db, err := storage.OpenDatabase(storage.MemoryPath)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	store := storage.NewStore(db)
	if err := store.EnsureSession(context.Background(), testSessionID); err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return store
}

// withSession attaches the test session to r the way the session middleware
// does.
func withSession(r *http.Request) *http.Request {
	return r.WithContext(WithSessionID(r.Context(), testSessionID))
}

type stubGeocoder struct {
	coords models.Coordinates
	err    error
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	return g.coords, g.err
}

type stubSearcher struct {
	places  []models.PlaceResult
	err     error
	queries []string
}

func (s *stubSearcher) SearchPlaces(ctx context.Context, req naver.SearchRequest) ([]models.PlaceResult, error) {
	s.queries = append(s.queries, req.Query)
	return s.places, s.err
}

func testPlaces() []models.PlaceResult {
	return []models.PlaceResult{
		{
			Title:     "<b>강남</b> 떡볶이",
			Address:   "서울특별시 강남구 역삼동 1",
			Link:      "https://example.com/tteok",
			Telephone: "02-000-0000",
			Category:  "한식>분식",
			Longitude: 127.0276,
			Latitude:  37.4979,
		},
		{
			Title:    "Noodle, \"Bar\"",
			Address:  "서울특별시 강남구 논현동 2",
			Category: "중식",
		},
	}
}

func newTestService(store *storage.Store, geo naver.Geocoder, search naver.PlaceSearcher) *recommend.Service {
	return recommend.NewService(geo, search, nil, store, recommend.Settings{
		Query:        taste.QueryOptions{Order: taste.OrderAddressFirst, Locale: taste.LocaleEnglish},
		Display:      7,
		Sort:         "random",
		RadiusMeters: 1000,
		UseGeocoding: geo != nil,
	})
}

func newTestConfig() *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			Display:        7,
			Sort:           "random",
			Locale:         "ko",
			Order:          "address_first",
			DefaultAddress: "서울 강남구",
			RadiusMeters:   1000,
			UseGeocoding:   true,
		},
		Export: config.ExportConfig{Dir: "./exports"},
	}
}
