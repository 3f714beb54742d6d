package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hoanghai1803/tastemap/internal/config"
	"github.com/hoanghai1803/tastemap/internal/export"
	"github.com/hoanghai1803/tastemap/internal/recommend"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

// ExportPlaces handles GET /api/export/places.csv?address=...&profile=...
// It runs a recommendation and returns the places as CSV.
func ExportPlaces(store *storage.Store, svc *recommend.Service, cfg config.ExportConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := recommendRequest{
			Address:      q.Get("address"),
			ProfileTitle: strings.TrimSpace(q.Get("profile")),
			Order:        q.Get("order"),
		}
		if err := taste.Validate(req); err != nil {
			respondError(w, "export places", err)
			return
		}

		rec, err := runRecommendation(r.Context(), store, svc,
			req.Address, req.ProfileTitle, taste.QueryOrder(req.Order))
		if err != nil {
			respondError(w, "export places", err)
			return
		}

		write := func(w io.Writer) error { return export.WritePlaces(w, rec.Places) }
		writeCSV(w, cfg, export.PlacesFileName, write)
	}
}

// ExportProfile handles GET /api/export/profile.csv.
func ExportProfile(store *storage.Store, cfg config.ExportConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := currentProfile(r.Context(), store, SessionID(r.Context()))
		if err != nil {
			respondError(w, "export profile", err)
			return
		}

		write := func(w io.Writer) error { return export.WriteProfile(w, p) }
		writeCSV(w, cfg, export.ProfileFileName, write)
	}
}

// writeCSV renders an export into memory first so encoding errors still
// produce a JSON error, then streams it as an attachment. When configured,
// the same export is also saved under the export directory.
func writeCSV(w http.ResponseWriter, cfg config.ExportConfig, name string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		respondError(w, "export "+name, err)
		return
	}

	if cfg.SaveToDisk {
		if path, err := export.SaveFile(cfg.Dir, name, write); err != nil {
			slog.Warn("failed to save export", "file", name, "error", err)
		} else {
			slog.Info("saved export", "path", path)
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write export", "file", name, "error", err)
	}
}
