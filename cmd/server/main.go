package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hoanghai1803/tastemap/internal/api"
	"github.com/hoanghai1803/tastemap/internal/config"
	"github.com/hoanghai1803/tastemap/internal/naver"
	"github.com/hoanghai1803/tastemap/internal/preview"
	"github.com/hoanghai1803/tastemap/internal/recommend"
	"github.com/hoanghai1803/tastemap/internal/storage"
	"github.com/hoanghai1803/tastemap/internal/taste"
)

const sessionSweepInterval = 15 * time.Minute

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	envFile := flag.String("env-file", ".env", "path to .env file with API credentials")
	flag.Parse()

	// Credentials usually live in .env; a missing file is fine.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load env file", "path", *envFile, "error", err)
	}

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Server.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open database with WAL mode and pragmas.
	db, err := storage.OpenDatabase(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run schema migrations.
	if err := storage.RunMigrations(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(db)

	client := naver.NewClient(naver.Options{
		GeocodeURL: cfg.Naver.GeocodeURL,
		SearchURL:  cfg.Naver.SearchURL,
		Geo:        naver.Credentials{ID: cfg.Naver.GeoClientID, Secret: cfg.Naver.GeoClientSecret},
		Place:      naver.Credentials{ID: cfg.Naver.PlaceClientID, Secret: cfg.Naver.PlaceClientSecret},
		Timeout:    time.Duration(cfg.Naver.TimeoutSeconds) * time.Second,
	})

	// Page previews are off unless configured.
	var previewer recommend.Previewer
	if cfg.Search.FetchPreviews {
		previewer = preview.NewFetcher()
		slog.Info("place page previews enabled")
	}

	svc := recommend.NewService(client, client, previewer, store, recommend.Settings{
		Query: taste.QueryOptions{
			Order:   taste.QueryOrder(cfg.Search.Order),
			Locale:  taste.Locale(cfg.Search.Locale),
			Keyword: cfg.Search.Keyword,
		},
		Display:      cfg.Search.Display,
		Sort:         cfg.Search.Sort,
		RadiusMeters: cfg.Search.RadiusMeters,
		UseGeocoding: cfg.Search.UseGeocoding,
	})

	go sweepSessions(ctx, store, time.Duration(cfg.Storage.SessionTTLHours)*time.Hour)

	router := api.NewRouter(store, svc, cfg)

	// Determine server address (localhost only for security).
	addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Auto-open browser after a short delay to let the server start.
	if cfg.Server.AutoOpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			openBrowser("http://" + addr)
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", "http://"+addr, "storage", cfg.Storage.Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// sweepSessions deletes sessions idle for longer than ttl until ctx ends.
func sweepSessions(ctx context.Context, store *storage.Store, ttl time.Duration) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpiredSessions(ctx, ttl)
			if err != nil {
				slog.Warn("failed to delete expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("deleted expired sessions", "count", n)
			}
		}
	}
}

// openBrowser opens the given URL in the user's default browser.
// It is a fire-and-forget operation; errors are silently ignored.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
