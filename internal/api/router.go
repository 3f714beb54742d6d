package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoanghai1803/tastemap/internal/api/handlers"
	"github.com/hoanghai1803/tastemap/internal/config"
	"github.com/hoanghai1803/tastemap/internal/recommend"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

// NewRouter creates and configures the HTTP router with the form UI, the
// JSON API and the operational endpoints.
func NewRouter(store *storage.Store, svc *recommend.Service, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(Metrics)
	r.Use(CORS)

	r.Get("/healthz", handlers.Healthz(store))
	r.Handle("/metrics", promhttp.Handler())

	// Form UI.
	r.Group(func(ui chi.Router) {
		ui.Use(Session(store))
		ui.Get("/", handlers.Index(store, cfg))
		ui.Post("/", handlers.SubmitForm(store, svc, cfg))
	})

	// API sub-router.
	r.Route("/api", func(api chi.Router) {
		api.Use(RateLimit(cfg.Server.RateLimitPerMinute))
		api.Use(Session(store))

		api.Get("/profile", handlers.GetProfile(store))
		api.Put("/profile", handlers.UpdateProfile(store))

		api.Get("/profiles", handlers.ListProfiles(store))
		api.Post("/profiles", handlers.SaveProfile(store, taste.Locale(cfg.Search.Locale)))
		api.Get("/profiles/{title}", handlers.GetNamedProfile(store))

		api.Post("/recommend", handlers.Recommend(store, svc))
		api.Get("/history", handlers.History(store))

		api.Get("/export/places.csv", handlers.ExportPlaces(store, svc, cfg.Export))
		api.Get("/export/profile.csv", handlers.ExportProfile(store, cfg.Export))

		api.Delete("/session", handlers.DeleteSession(store))
	})

	return r
}
