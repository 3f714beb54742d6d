package handlers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hoanghai1803/tastemap/internal/config"
	"github.com/hoanghai1803/tastemap/internal/models"
	"github.com/hoanghai1803/tastemap/internal/recommend"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type option struct {
	Value    string
	Label    string
	Selected bool
}

type marker struct {
	Title     string  `json:"title"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

type pageData struct {
	Profile        models.PreferenceProfile
	Address        string
	SaveAs         string
	Cuisines       []option
	Intensities    []option
	Diets          []option
	Saved          []models.NamedProfile
	Recommendation *models.Recommendation
	Center         *models.Coordinates
	Markers        []marker
	Error          string
}

var (
	intensityLabels = []option{
		{Value: string(models.SpiceIntensityMild), Label: "약하게"},
		{Value: string(models.SpiceIntensityMedium), Label: "보통"},
		{Value: string(models.SpiceIntensityStrong), Label: "강하게"},
	}
	dietLabels = []option{
		{Value: string(models.DietMeat), Label: "육식"},
		{Value: string(models.DietVegetarian), Label: "채식"},
		{Value: string(models.DietVegan), Label: "비건"},
	}
)

func newPageData(p models.PreferenceProfile, address string, locale taste.Locale) *pageData {
	d := &pageData{Profile: p, Address: address}

	selected := make(map[models.Cuisine]bool, len(p.Cuisines))
	for _, c := range p.Cuisines {
		selected[c] = true
	}
	for _, c := range models.AllCuisines {
		d.Cuisines = append(d.Cuisines, option{
			Value:    string(c),
			Label:    taste.CuisineLabel([]models.Cuisine{c}, locale),
			Selected: selected[c],
		})
	}
	d.Intensities = markSelected(intensityLabels, string(p.SpiceIntensity))
	d.Diets = markSelected(dietLabels, string(p.DietPreference))
	return d
}

func markSelected(opts []option, value string) []option {
	out := make([]option, len(opts))
	copy(out, opts)
	for i := range out {
		out[i].Selected = out[i].Value == value
	}
	return out
}

func (d *pageData) setRecommendation(rec *models.Recommendation) {
	d.Recommendation = rec
	d.Center = rec.Coordinates
	for _, p := range rec.Places {
		if !p.HasLocation() {
			continue
		}
		d.Markers = append(d.Markers, marker{
			Title:     p.Title,
			Address:   p.Address,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
		if d.Center == nil {
			d.Center = &models.Coordinates{Longitude: p.Longitude, Latitude: p.Latitude}
		}
	}
}

func renderPage(w http.ResponseWriter, status int, d *pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, d); err != nil {
		slog.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Index handles GET /. It renders the preference form filled with the
// working profile, or with a saved profile when ?profile=<title> is given.
func Index(store *storage.Store, cfg *config.Config) http.HandlerFunc {
	locale := taste.Locale(cfg.Search.Locale)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := SessionID(ctx)

		p, err := currentProfile(ctx, store, sessionID)
		status := http.StatusOK
		var banner string
		if err != nil {
			status, banner = errorStatus(err)
			slog.Error("loading profile for form", "error", err)
			p = models.DefaultProfile()
		}

		if title := strings.TrimSpace(r.URL.Query().Get("profile")); title != "" {
			np, err := store.GetNamedProfile(ctx, sessionID, title)
			if err != nil {
				status, banner = errorStatus(err)
			} else {
				p = np.Profile
			}
		}

		d := newPageData(p, cfg.Search.DefaultAddress, locale)
		d.Error = banner
		d.Saved = savedProfiles(ctx, store, sessionID)
		renderPage(w, status, d)
	}
}

// SubmitForm handles POST /. It saves the submitted profile (and a named
// copy when save_as is set), runs a recommendation and renders the results
// or an error banner.
func SubmitForm(store *storage.Store, svc *recommend.Service, cfg *config.Config) http.HandlerFunc {
	locale := taste.Locale(cfg.Search.Locale)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := SessionID(ctx)

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			renderFormError(w, store, r, newPageData(models.DefaultProfile(), "", locale), err)
			return
		}

		address := strings.TrimSpace(r.PostForm.Get("address"))
		p, err := profileFromForm(r)
		d := newPageData(p, address, locale)
		d.SaveAs = strings.TrimSpace(r.PostForm.Get("save_as"))
		if err == nil {
			err = taste.Validate(p)
		}
		if err != nil {
			renderFormError(w, store, r, d, err)
			return
		}

		if err := store.SaveCurrentProfile(ctx, sessionID, p); err != nil {
			renderFormError(w, store, r, d, err)
			return
		}
		if d.SaveAs != "" {
			np := models.NamedProfile{Title: d.SaveAs, Profile: p, Summary: taste.Summary(d.SaveAs, p, locale)}
			if err := taste.Validate(np); err != nil {
				renderFormError(w, store, r, d, err)
				return
			}
			if err := store.SaveNamedProfile(ctx, sessionID, np); err != nil {
				renderFormError(w, store, r, d, err)
				return
			}
		}

		rec, err := svc.Recommend(ctx, recommend.Request{
			SessionID:    sessionID,
			ProfileTitle: d.SaveAs,
			Profile:      p,
			Address:      address,
		})
		if err != nil {
			renderFormError(w, store, r, d, err)
			return
		}

		d.setRecommendation(rec)
		d.Saved = savedProfiles(ctx, store, sessionID)
		renderPage(w, http.StatusOK, d)
	}
}

func renderFormError(w http.ResponseWriter, store *storage.Store, r *http.Request, d *pageData, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("form submission failed", "status", status, "error", err)
	} else {
		slog.Info("form submission rejected", "status", status, "error", err)
	}
	d.Error = msg
	d.Saved = savedProfiles(r.Context(), store, SessionID(r.Context()))
	renderPage(w, status, d)
}

// savedProfiles lists the session's named profiles for the page sidebar.
// A storage failure only hides the list, so it is logged and not returned.
func savedProfiles(ctx context.Context, store *storage.Store, sessionID string) []models.NamedProfile {
	saved, err := store.ListNamedProfiles(ctx, sessionID)
	if err != nil {
		slog.Warn("failed to list saved profiles", "session", sessionID, "error", err)
		return nil
	}
	return saved
}

// profileFromForm reads a profile from posted form fields. Missing fields
// take their default values.
func profileFromForm(r *http.Request) (models.PreferenceProfile, error) {
	p := models.DefaultProfile()

	if raw := strings.TrimSpace(r.PostForm.Get("spicy_level")); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			return p, &taste.ValidationError{Fields: []taste.FieldError{{
				Field:   "spicy_level",
				Message: fmt.Sprintf("spicy_level must be a number, got %q", raw),
			}}}
		}
		p.SpicyLevel = level
	}

	for _, c := range r.PostForm["cuisine"] {
		if c = strings.TrimSpace(c); c != "" {
			p.Cuisines = append(p.Cuisines, models.Cuisine(c))
		}
	}
	if v := r.PostForm.Get("spice_intensity"); v != "" {
		p.SpiceIntensity = models.SpiceIntensity(v)
	}
	if v := r.PostForm.Get("diet_preference"); v != "" {
		p.DietPreference = models.DietPreference(v)
	}
	p.DislikedFoods = strings.TrimSpace(r.PostForm.Get("disliked_foods"))
	p.AdditionalPreferences = strings.TrimSpace(r.PostForm.Get("additional_preferences"))

	return taste.NormalizeProfile(p), nil
}
