package naver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoanghai1803/tastemap/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Options{
		GeocodeURL: srv.URL + "/map-geocode/v2/geocode",
		SearchURL:  srv.URL + "/v1/search/local.json",
		Geo:        Credentials{ID: "geo-id", Secret: "geo-secret"},
		Place:      Credentials{ID: "place-id", Secret: "place-secret"},
	})
}

func TestGeocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/map-geocode/v2/geocode" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "서울 강남구" {
			t.Errorf("query = %q, want %q", got, "서울 강남구")
		}
		if got := r.Header.Get("X-NCP-APIGW-API-KEY-ID"); got != "geo-id" {
			t.Errorf("X-NCP-APIGW-API-KEY-ID = %q", got)
		}
		if got := r.Header.Get("X-NCP-APIGW-API-KEY"); got != "geo-secret" {
			t.Errorf("X-NCP-APIGW-API-KEY = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","addresses":[{"roadAddress":"서울특별시 강남구","x":"127.0473","y":"37.5172"},{"x":"1","y":"2"}]}`))
	})

	got, err := client.Geocode(context.Background(), "서울 강남구")
	if err != nil {
		t.Fatalf("Geocode() error: %v", err)
	}
	want := models.Coordinates{Longitude: 127.0473, Latitude: 37.5172}
	if got != want {
		t.Errorf("Geocode() = %+v, want %+v", got, want)
	}
}

func TestGeocode_NoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","addresses":[]}`))
	})

	_, err := client.Geocode(context.Background(), "nowhere")
	if !errors.Is(err, ErrAddressNotFound) {
		t.Errorf("Geocode() error = %v, want ErrAddressNotFound", err)
	}
}

func TestGeocode_Non200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"errorCode":"200","message":"Authentication Failed"}}`))
	})

	_, err := client.Geocode(context.Background(), "서울")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Geocode() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Endpoint != "geocode" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestGeocode_BadCoordinate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"addresses":[{"x":"abc","y":"37.5"}]}`))
	})

	if _, err := client.Geocode(context.Background(), "서울"); err == nil {
		t.Fatal("Geocode() expected error for unparsable x, got nil")
	}
}

const searchBody = `{
  "total": 2,
  "start": 1,
  "display": 2,
  "items": [
    {
      "title": "<b>강남</b> 떡볶이",
      "link": "https://example.com/tteok",
      "category": "분식>떡볶이",
      "description": "",
      "telephone": "02-000-0000",
      "address": "서울특별시 강남구 역삼동 1",
      "roadAddress": "서울특별시 강남구 테헤란로 1",
      "mapx": "1270276123",
      "mapy": "374979456"
    },
    {
      "title": "Legacy",
      "link": "",
      "category": "한식",
      "telephone": "",
      "address": "somewhere",
      "mapx": "311277",
      "mapy": "552185",
      "rating": "4.2"
    }
  ]
}`

func TestSearchPlaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("query"); got != "서울 강남구 매운 한식 맛집" {
			t.Errorf("query = %q", got)
		}
		if got := q.Get("display"); got != "7" {
			t.Errorf("display = %q, want 7", got)
		}
		if got := q.Get("sort"); got != "random" {
			t.Errorf("sort = %q, want random", got)
		}
		if got := q.Get("x"); got != "127.0473" {
			t.Errorf("x = %q, want 127.0473", got)
		}
		if got := q.Get("y"); got != "37.5172" {
			t.Errorf("y = %q, want 37.5172", got)
		}
		if got := q.Get("radius"); got != "1000" {
			t.Errorf("radius = %q, want 1000", got)
		}
		if got := r.Header.Get("X-Naver-Client-Id"); got != "place-id" {
			t.Errorf("X-Naver-Client-Id = %q", got)
		}
		if got := r.Header.Get("X-Naver-Client-Secret"); got != "place-secret" {
			t.Errorf("X-Naver-Client-Secret = %q", got)
		}
		w.Write([]byte(searchBody))
	})

	places, err := client.SearchPlaces(context.Background(), SearchRequest{
		Query:        "서울 강남구 매운 한식 맛집",
		Near:         &models.Coordinates{Longitude: 127.0473, Latitude: 37.5172},
		RadiusMeters: 1000,
		Display:      7,
		Sort:         "random",
	})
	if err != nil {
		t.Fatalf("SearchPlaces() error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("got %d places, want 2", len(places))
	}

	first := places[0]
	if first.Title != "<b>강남</b> 떡볶이" {
		t.Errorf("Title = %q, markup should be left for the normalizer", first.Title)
	}
	if first.RoadAddress != "서울특별시 강남구 테헤란로 1" {
		t.Errorf("RoadAddress = %q", first.RoadAddress)
	}
	if first.Longitude != 127.0276123 || first.Latitude != 37.4979456 {
		t.Errorf("coordinates = (%v, %v)", first.Longitude, first.Latitude)
	}
	if places[1].HasLocation() {
		t.Errorf("legacy mapx/mapy should not produce a location, got (%v, %v)", places[1].Longitude, places[1].Latitude)
	}
	if places[1].Rating != "4.2" {
		t.Errorf("Rating = %q, want 4.2", places[1].Rating)
	}
}

func TestSearchPlaces_WithoutCoordinates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, k := range []string{"x", "y", "radius"} {
			if q.Has(k) {
				t.Errorf("unexpected %q parameter", k)
			}
		}
		if got := q.Get("display"); got != "30" {
			t.Errorf("display = %q, want clamped 30", got)
		}
		w.Write([]byte(`{"items":[]}`))
	})

	places, err := client.SearchPlaces(context.Background(), SearchRequest{Query: "맛집", RadiusMeters: 500, Display: 99})
	if err != nil {
		t.Fatalf("SearchPlaces() error: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("got %d places, want 0", len(places))
	}
}

func TestSearchPlaces_Non200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.SearchPlaces(context.Background(), SearchRequest{Query: "맛집"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("SearchPlaces() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Body != "quota exceeded" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestSearchPlaces_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Options{SearchURL: url})
	if _, err := client.SearchPlaces(context.Background(), SearchRequest{Query: "맛집"}); err == nil {
		t.Fatal("SearchPlaces() expected error for closed server, got nil")
	}
}

func TestParseMapXY(t *testing.T) {
	tests := []struct {
		name    string
		x, y    string
		wantLng float64
		wantLat float64
	}{
		{name: "wgs84 scaled", x: "1269780493", y: "375665851", wantLng: 126.9780493, wantLat: 37.5665851},
		{name: "legacy katec", x: "311277", y: "552185"},
		{name: "empty", x: "", y: ""},
		{name: "garbage", x: "a", y: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lng, lat := parseMapXY(tt.x, tt.y)
			if lng != tt.wantLng || lat != tt.wantLat {
				t.Errorf("parseMapXY(%q, %q) = (%v, %v), want (%v, %v)", tt.x, tt.y, lng, lat, tt.wantLng, tt.wantLat)
			}
		})
	}
}
