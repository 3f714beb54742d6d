package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/hoanghai1803/tastemap/internal/naver"
	"github.com/hoanghai1803/tastemap/internal/recommend"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 * 1024

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing more can be reported to the client.
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "message"}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	return nil
}

// errorStatus maps an error from a user action to an HTTP status and the
// message shown to the user.
func errorStatus(err error) (int, string) {
	var (
		apiErr   *naver.APIError
		valErr   *taste.ValidationError
		urlErr   *url.Error
		maxBytes *http.MaxBytesError
	)
	switch {
	case errors.Is(err, recommend.ErrMissingAddress):
		return http.StatusBadRequest, "Please enter an address."
	case errors.As(err, &valErr):
		return http.StatusBadRequest, valErr.Error()
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, naver.ErrAddressNotFound):
		return http.StatusNotFound, "No location found for that address."
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, storage.ErrNoSession):
		return http.StatusBadRequest, "No active session"
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, fmt.Sprintf("The %s service returned status %d.", apiErr.Endpoint, apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &urlErr):
		return http.StatusBadGateway, "Could not reach the map service. Check your network connection."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

// respondError is the catch site for a failed action: it logs err and writes
// the mapped JSON error.
func respondError(w http.ResponseWriter, action string, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error(action+" failed", "status", status, "error", err)
	} else {
		slog.Info(action+" rejected", "status", status, "error", err)
	}
	writeError(w, status, msg)
}

// queryInt reads an integer query parameter, returning def when absent and
// clamping to [1, max].
func queryInt(r *http.Request, name string, def, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %q parameter: %w", name, err)
	}
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	return n, nil
}
