package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/hoanghai1803/tastemap/internal/naver"
	"github.com/hoanghai1803/tastemap/internal/recommend"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

func TestWriteJSON(t *testing.T) {
	t.Run("encodes and sets content type", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"hello": "world"}

		writeJSON(w, http.StatusOK, data)

		if w.Code != http.StatusOK {
			t.Errorf("got status %d, want %d", w.Code, http.StatusOK)
		}

		ct := w.Header().Get("Content-Type")
		if ct != "application/json" {
			t.Errorf("got Content-Type %q, want %q", ct, "application/json")
		}

		var got map[string]string
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("decoding response body: %v", err)
		}
		if got["hello"] != "world" {
			t.Errorf("got %q, want %q", got["hello"], "world")
		}
	})

	t.Run("sets custom status code", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeJSON(w, http.StatusCreated, map[string]string{"ok": "true"})

		if w.Code != http.StatusCreated {
			t.Errorf("got status %d, want %d", w.Code, http.StatusCreated)
		}
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, http.StatusBadRequest, "something went wrong")

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	if got["error"] != "something went wrong" {
		t.Errorf("got error %q, want %q", got["error"], "something went wrong")
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing address", recommend.ErrMissingAddress, http.StatusBadRequest},
		{"validation", &taste.ValidationError{Fields: []taste.FieldError{{Field: "spicy_level", Message: "bad"}}}, http.StatusBadRequest},
		{"address not found", fmt.Errorf("geocoding address: %w", naver.ErrAddressNotFound), http.StatusNotFound},
		{"storage not found", fmt.Errorf("loading: %w", storage.ErrNotFound), http.StatusNotFound},
		{"no session", storage.ErrNoSession, http.StatusBadRequest},
		{"upstream status", fmt.Errorf("searching places: %w", &naver.APIError{Endpoint: "search", StatusCode: 401}), http.StatusBadGateway},
		{"network", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}, http.StatusBadGateway},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := errorStatus(tt.err)
			if got != tt.want {
				t.Errorf("errorStatus() = %d, want %d", got, tt.want)
			}
			if msg == "" {
				t.Error("errorStatus() returned an empty message")
			}
		})
	}
}

func TestErrorStatus_UpstreamMessageNamesStatus(t *testing.T) {
	_, msg := errorStatus(&naver.APIError{Endpoint: "geocode", StatusCode: 429})
	if msg != "The geocode service returned status 429." {
		t.Errorf("message = %q", msg)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 20, false},
		{"limit=5", 5, false},
		{"limit=0", 1, false},
		{"limit=1000", 100, false},
		{"limit=abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/history?"+tt.query, nil)
			got, err := queryInt(r, "limit", 20, 100)
			if (err != nil) != tt.wantErr {
				t.Fatalf("queryInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("queryInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
