package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/tastemap/internal/storage"
)

// Healthz handles GET /healthz.
func Healthz(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
