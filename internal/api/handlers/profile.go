package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hoanghai1803/tastemap/internal/models"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

// currentProfile returns the session's working profile, or the default
// profile when none has been saved yet.
func currentProfile(ctx context.Context, store *storage.Store, sessionID string) (models.PreferenceProfile, error) {
	p, err := store.GetCurrentProfile(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultProfile(), nil
	}
	if err != nil {
		return models.PreferenceProfile{}, err
	}
	return p, nil
}

// GetProfile handles GET /api/profile.
func GetProfile(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := currentProfile(r.Context(), store, SessionID(r.Context()))
		if err != nil {
			respondError(w, "get profile", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// UpdateProfile handles PUT /api/profile. Fields missing from the body keep
// their current values.
func UpdateProfile(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := SessionID(ctx)

		p, err := currentProfile(ctx, store, sessionID)
		if err != nil {
			respondError(w, "update profile", err)
			return
		}
		if err := decodeJSON(w, r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		p = taste.NormalizeProfile(p)
		if err := taste.Validate(p); err != nil {
			respondError(w, "update profile", err)
			return
		}

		if err := store.SaveCurrentProfile(ctx, sessionID, p); err != nil {
			respondError(w, "update profile", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// ListProfiles handles GET /api/profiles.
func ListProfiles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := store.ListNamedProfiles(r.Context(), SessionID(r.Context()))
		if err != nil {
			respondError(w, "list profiles", err)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

// SaveProfile handles POST /api/profiles. The body is {"title": ...,
// "profile": {...}}; a profile with the same title is replaced.
func SaveProfile(store *storage.Store, locale taste.Locale) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		np := models.NamedProfile{Profile: models.DefaultProfile()}
		if err := decodeJSON(w, r, &np); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		np.Title = strings.TrimSpace(np.Title)
		np.Profile = taste.NormalizeProfile(np.Profile)
		if err := taste.Validate(np); err != nil {
			respondError(w, "save profile", err)
			return
		}
		np.Summary = taste.Summary(np.Title, np.Profile, locale)

		if err := store.SaveNamedProfile(ctx, SessionID(ctx), np); err != nil {
			respondError(w, "save profile", err)
			return
		}

		saved, err := store.GetNamedProfile(ctx, SessionID(ctx), np.Title)
		if err != nil {
			respondError(w, "save profile", err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

// GetNamedProfile handles GET /api/profiles/{title}.
func GetNamedProfile(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title, err := url.PathUnescape(chi.URLParam(r, "title"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid profile title")
			return
		}

		np, err := store.GetNamedProfile(r.Context(), SessionID(r.Context()), title)
		if err != nil {
			respondError(w, "get profile", fmt.Errorf("profile %q: %w", title, err))
			return
		}
		writeJSON(w, http.StatusOK, np)
	}
}
