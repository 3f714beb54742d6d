// Package naver talks to the Naver geocoding and local place-search
// endpoints.
package naver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/hoanghai1803/tastemap/internal/metrics"
	"github.com/hoanghai1803/tastemap/internal/models"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 * 1024
	maxDisplay     = 30

	endpointGeocode = "geocode"
	endpointSearch  = "search"
)

// ErrAddressNotFound is returned when the geocoder has no match for an
// address.
var ErrAddressNotFound = errors.New("address not found")

// APIError is returned when an endpoint answers with a non-200 status.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Endpoint, e.StatusCode, e.Body)
}

// Geocoder converts an address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// PlaceSearcher looks up places matching a free-text query.
type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, req SearchRequest) ([]models.PlaceResult, error)
}

// Credentials is one client id/secret pair.
type Credentials struct {
	ID     string
	Secret string
}

// Options configures a Client.
type Options struct {
	GeocodeURL string
	SearchURL  string
	Geo        Credentials
	Place      Credentials
	Timeout    time.Duration
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client implements Geocoder and PlaceSearcher against the Naver APIs.
type Client struct {
	geocodeURL string
	searchURL  string
	geo        Credentials
	place      Credentials
	http       *http.Client
}

// Compile-time interface checks.
var (
	_ Geocoder      = (*Client)(nil)
	_ PlaceSearcher = (*Client)(nil)
)

// NewClient creates a Client. A zero Timeout means 10 seconds.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{
			Timeout: timeout,
			Transport: &userAgentTransport{
				base: http.DefaultTransport,
			},
		}
	}
	return &Client{
		geocodeURL: opts.GeocodeURL,
		searchURL:  opts.SearchURL,
		geo:        opts.Geo,
		place:      opts.Place,
		http:       hc,
	}
}

// userAgentTransport wraps an http.RoundTripper to identify the app on every
// request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", "tastemap/1.0")
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}

// geocodeResponse is the response body of the geocoding endpoint.
type geocodeResponse struct {
	Status    string `json:"status"`
	Addresses []struct {
		RoadAddress  string `json:"roadAddress"`
		JibunAddress string `json:"jibunAddress"`
		X            string `json:"x"`
		Y            string `json:"y"`
	} `json:"addresses"`
	ErrorMessage string `json:"errorMessage"`
}

// Geocode resolves address to the coordinates of the first match.
func (c *Client) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("query", address)

	headers := map[string]string{
		"X-NCP-APIGW-API-KEY-ID": c.geo.ID,
		"X-NCP-APIGW-API-KEY":    c.geo.Secret,
	}

	var resp geocodeResponse
	if err := c.get(ctx, endpointGeocode, c.geocodeURL, params, headers, &resp); err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: %w", address, err)
	}

	if len(resp.Addresses) == 0 {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: %w", address, ErrAddressNotFound)
	}

	first := resp.Addresses[0]
	lng, err := strconv.ParseFloat(first.X, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: parsing longitude %q: %w", address, first.X, err)
	}
	lat, err := strconv.ParseFloat(first.Y, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding %q: parsing latitude %q: %w", address, first.Y, err)
	}

	return models.Coordinates{Longitude: lng, Latitude: lat}, nil
}

// SearchRequest is one place-search call.
type SearchRequest struct {
	Query string
	// Near, when set, is sent as x/y so the endpoint can bias results.
	Near         *models.Coordinates
	RadiusMeters int
	Display      int
	Sort         string
}

// searchResponse is the response body of the local search endpoint.
type searchResponse struct {
	Total int          `json:"total"`
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Telephone   string `json:"telephone"`
	Address     string `json:"address"`
	RoadAddress string `json:"roadAddress"`
	MapX        string `json:"mapx"`
	MapY        string `json:"mapy"`
	Rating      string `json:"rating"`
}

// SearchPlaces returns the places for req in the order the endpoint ranked
// them. Text fields are returned as-is, markup included.
func (c *Client) SearchPlaces(ctx context.Context, req SearchRequest) ([]models.PlaceResult, error) {
	params := url.Values{}
	params.Set("query", req.Query)
	if req.Display > 0 {
		params.Set("display", strconv.Itoa(min(req.Display, maxDisplay)))
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	if req.Near != nil {
		params.Set("x", strconv.FormatFloat(req.Near.Longitude, 'f', -1, 64))
		params.Set("y", strconv.FormatFloat(req.Near.Latitude, 'f', -1, 64))
		if req.RadiusMeters > 0 {
			params.Set("radius", strconv.Itoa(req.RadiusMeters))
		}
	}

	headers := map[string]string{
		"X-Naver-Client-Id":     c.place.ID,
		"X-Naver-Client-Secret": c.place.Secret,
	}

	var resp searchResponse
	if err := c.get(ctx, endpointSearch, c.searchURL, params, headers, &resp); err != nil {
		return nil, fmt.Errorf("searching places for %q: %w", req.Query, err)
	}

	places := make([]models.PlaceResult, 0, len(resp.Items))
	for _, it := range resp.Items {
		p := models.PlaceResult{
			Title:       it.Title,
			Address:     it.Address,
			RoadAddress: it.RoadAddress,
			Link:        it.Link,
			Telephone:   it.Telephone,
			Category:    it.Category,
			Description: it.Description,
			Rating:      it.Rating,
		}
		p.Longitude, p.Latitude = parseMapXY(it.MapX, it.MapY)
		places = append(places, p)
	}
	return places, nil
}

// parseMapXY converts mapx/mapy, WGS84 degrees scaled by 1e7, into degrees.
// Values in the legacy projected format, or unparsable ones, yield zeros.
func parseMapXY(mapx, mapy string) (lng, lat float64) {
	x, errX := strconv.ParseInt(strings.TrimSpace(mapx), 10, 64)
	y, errY := strconv.ParseInt(strings.TrimSpace(mapy), 10, 64)
	if errX != nil || errY != nil {
		return 0, 0
	}
	lng, lat = float64(x)/1e7, float64(y)/1e7
	if abs(lng) < 1 || abs(lat) < 1 || abs(lng) > 180 || abs(lat) > 90 {
		return 0, 0
	}
	return lng, lat
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// get issues one GET request and decodes a 200 JSON body into dest.
func (c *Client) get(ctx context.Context, endpoint, baseURL string, params url.Values, headers map[string]string, dest any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.RecordExternalCall(endpoint, outcome, time.Since(start))
	}()

	u, err := url.Parse(baseURL)
	if err != nil {
		outcome = "config_error"
		return fmt.Errorf("parsing %s URL: %w", endpoint, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		outcome = "config_error"
		return fmt.Errorf("creating request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	slog.Debug("calling naver API", "endpoint", endpoint, "url", u.Redacted())

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "network_error"
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		outcome = "http_error"
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		outcome = "decode_error"
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
