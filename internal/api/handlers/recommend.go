package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hoanghai1803/tastemap/internal/models"
	"github.com/hoanghai1803/tastemap/internal/recommend"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type recommendRequest struct {
	Address      string `json:"address"`
	ProfileTitle string `json:"profile_title" validate:"max=100"`
	Order        string `json:"order" validate:"omitempty,oneof=address_first taste_first"`
}

// runRecommendation resolves the profile to use (a named one when title is
// set, the working profile otherwise) and runs the recommendation.
func runRecommendation(ctx context.Context, store *storage.Store, svc *recommend.Service, address, title string, order taste.QueryOrder) (*models.Recommendation, error) {
	sessionID := SessionID(ctx)

	var profile models.PreferenceProfile
	if title != "" {
		np, err := store.GetNamedProfile(ctx, sessionID, title)
		if err != nil {
			return nil, fmt.Errorf("loading profile %q: %w", title, err)
		}
		profile = np.Profile
	} else {
		p, err := currentProfile(ctx, store, sessionID)
		if err != nil {
			return nil, fmt.Errorf("loading current profile: %w", err)
		}
		profile = p
	}

	return svc.Recommend(ctx, recommend.Request{
		SessionID:    sessionID,
		ProfileTitle: title,
		Profile:      profile,
		Address:      address,
		Order:        order,
	})
}

// Recommend handles POST /api/recommend.
func Recommend(store *storage.Store, svc *recommend.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recommendRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if err := taste.Validate(req); err != nil {
			respondError(w, "recommend", err)
			return
		}

		rec, err := runRecommendation(r.Context(), store, svc,
			req.Address, strings.TrimSpace(req.ProfileTitle), taste.QueryOrder(req.Order))
		if err != nil {
			respondError(w, "recommend", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// History handles GET /api/history?limit=N.
func History(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", defaultHistoryLimit, maxHistoryLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		runs, err := store.RecentRuns(r.Context(), SessionID(r.Context()), limit)
		if err != nil {
			respondError(w, "history", err)
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}
