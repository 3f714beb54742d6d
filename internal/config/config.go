package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Naver   NaverConfig   `toml:"naver"`
	Search  SearchConfig  `toml:"search"`
	Storage StorageConfig `toml:"storage"`
	Export  ExportConfig  `toml:"export"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               int    `toml:"port"`
	AutoOpenBrowser    bool   `toml:"auto_open_browser"`
	LogLevel           string `toml:"log_level"`
	RateLimitPerMinute int    `toml:"rate_limit_per_minute"`
}

// NaverConfig holds the geocoding and place-search endpoints and their
// credentials. Geocoding and place search use separate key pairs.
type NaverConfig struct {
	GeocodeURL        string `toml:"geocode_url"`
	SearchURL         string `toml:"search_url"`
	GeoClientID       string `toml:"geo_client_id"`
	GeoClientSecret   string `toml:"geo_client_secret"`
	PlaceClientID     string `toml:"place_client_id"`
	PlaceClientSecret string `toml:"place_client_secret"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// SearchConfig controls how recommendations are built.
type SearchConfig struct {
	Display        int    `toml:"display"`
	Sort           string `toml:"sort"`
	Locale         string `toml:"locale"`
	Order          string `toml:"order"`
	Keyword        bool   `toml:"keyword"`
	DefaultAddress string `toml:"default_address"`
	RadiusMeters   int    `toml:"radius_meters"`
	UseGeocoding   bool   `toml:"use_geocoding"`
	FetchPreviews  bool   `toml:"fetch_previews"`
}

// StorageConfig holds the preference store settings.
type StorageConfig struct {
	// Path is the SQLite file. ":memory:" keeps profiles for the lifetime of
	// the process only.
	Path            string `toml:"path"`
	SessionTTLHours int    `toml:"session_ttl_hours"`
}

// ExportConfig controls CSV files written to disk.
type ExportConfig struct {
	Dir        string `toml:"dir"`
	SaveToDisk bool   `toml:"save_to_disk"`
}

const (
	defaultGeocodeURL = "https://naveropenapi.apigw.ntruss.com/map-geocode/v2/geocode"
	defaultSearchURL  = "https://openapi.naver.com/v1/search/local.json"
)

const defaultConfigContent = `[server]
port = 8501
auto_open_browser = true
log_level = "info"                # debug, info, warn, error
rate_limit_per_minute = 60        # per client IP on /api, 0 disables

[naver]
geocode_url = "https://naveropenapi.apigw.ntruss.com/map-geocode/v2/geocode"
search_url = "https://openapi.naver.com/v1/search/local.json"
geo_client_id = ""                # or GEO_CLIENT_ID env var
geo_client_secret = ""            # or GEO_CLIENT_SECRET env var
place_client_id = ""              # or PLACE_CLIENT_ID env var
place_client_secret = ""          # or PLACE_CLIENT_SECRET env var
timeout_seconds = 10

[search]
display = 7                       # results per search, 1-30
sort = "random"                   # "random" or "comment"
locale = "ko"                     # query language: "ko" (매운 한식) or "en" (spicy Korean)
order = "address_first"           # "address_first" or "taste_first"
keyword = true                    # append "맛집" / "restaurant"
default_address = "서울 강남구"
radius_meters = 1000
use_geocoding = true
fetch_previews = false

[storage]
path = ":memory:"
session_ttl_hours = 24            # idle sessions older than this are deleted, >= 1

[export]
dir = "./exports"
save_to_disk = false
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg, md)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("search", "display") {
		if cfg.Search.Display < 1 || cfg.Search.Display > 30 {
			return fmt.Errorf("invalid search.display %d: must be between 1 and 30", cfg.Search.Display)
		}
	}
	if md.IsDefined("search", "radius_meters") {
		if cfg.Search.RadiusMeters < 100 || cfg.Search.RadiusMeters > 5000 {
			return fmt.Errorf("invalid search.radius_meters %d: must be between 100 and 5000", cfg.Search.RadiusMeters)
		}
	}
	if md.IsDefined("server", "rate_limit_per_minute") {
		if cfg.Server.RateLimitPerMinute < 0 {
			return fmt.Errorf("invalid server.rate_limit_per_minute %d: must be >= 0 (0 disables)", cfg.Server.RateLimitPerMinute)
		}
	}
	if md.IsDefined("storage", "session_ttl_hours") {
		if cfg.Storage.SessionTTLHours < 1 {
			return fmt.Errorf("invalid storage.session_ttl_hours %d: must be >= 1", cfg.Storage.SessionTTLHours)
		}
	}
	if md.IsDefined("naver", "timeout_seconds") {
		if cfg.Naver.TimeoutSeconds < 1 {
			return fmt.Errorf("invalid naver.timeout_seconds %d: must be >= 1", cfg.Naver.TimeoutSeconds)
		}
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields. Booleans
// that default to true are only set when the key is absent from the file.
func applyDefaults(cfg *Config, md toml.MetaData) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8501
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if !md.IsDefined("server", "rate_limit_per_minute") {
		cfg.Server.RateLimitPerMinute = 60
	}

	if cfg.Naver.GeocodeURL == "" {
		cfg.Naver.GeocodeURL = defaultGeocodeURL
	}
	if cfg.Naver.SearchURL == "" {
		cfg.Naver.SearchURL = defaultSearchURL
	}
	if cfg.Naver.TimeoutSeconds == 0 {
		cfg.Naver.TimeoutSeconds = 10
	}

	if cfg.Search.Display == 0 {
		cfg.Search.Display = 7
	}
	if cfg.Search.Sort == "" {
		cfg.Search.Sort = "random"
	}
	if cfg.Search.Locale == "" {
		cfg.Search.Locale = "ko"
	}
	if cfg.Search.Order == "" {
		cfg.Search.Order = "address_first"
	}
	if !md.IsDefined("search", "keyword") {
		cfg.Search.Keyword = true
	}
	if cfg.Search.DefaultAddress == "" {
		cfg.Search.DefaultAddress = "서울 강남구"
	}
	if cfg.Search.RadiusMeters == 0 {
		cfg.Search.RadiusMeters = 1000
	}
	if !md.IsDefined("search", "use_geocoding") {
		cfg.Search.UseGeocoding = true
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = ":memory:"
	}
	if cfg.Storage.SessionTTLHours == 0 {
		cfg.Storage.SessionTTLHours = 24
	}

	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "./exports"
	}
}

// applyEnvOverrides applies environment variable overrides. The credential
// variable names match the .env file used by earlier versions of the app.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"GEO_CLIENT_ID", &cfg.Naver.GeoClientID},
		{"GEO_CLIENT_SECRET", &cfg.Naver.GeoClientSecret},
		{"PLACE_CLIENT_ID", &cfg.Naver.PlaceClientID},
		{"PLACE_CLIENT_SECRET", &cfg.Naver.PlaceClientSecret},
		{"TASTEMAP_STORAGE_PATH", &cfg.Storage.Path},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	if v := os.Getenv("TASTEMAP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			slog.Warn("ignoring invalid TASTEMAP_PORT", "value", v)
		}
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	switch cfg.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid server.log_level %q: must be debug, info, warn or error", cfg.Server.LogLevel)
	}

	switch cfg.Search.Sort {
	case "random", "comment":
	default:
		return fmt.Errorf("invalid search.sort %q: must be \"random\" or \"comment\"", cfg.Search.Sort)
	}

	switch cfg.Search.Locale {
	case "ko", "en":
	default:
		return fmt.Errorf("invalid search.locale %q: must be \"ko\" or \"en\"", cfg.Search.Locale)
	}

	switch cfg.Search.Order {
	case "address_first", "taste_first":
	default:
		return fmt.Errorf("invalid search.order %q: must be \"address_first\" or \"taste_first\"", cfg.Search.Order)
	}

	if cfg.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("invalid server.rate_limit_per_minute %d: must be >= 0", cfg.Server.RateLimitPerMinute)
	}
	if cfg.Storage.SessionTTLHours < 1 {
		return fmt.Errorf("invalid storage.session_ttl_hours %d: must be >= 1", cfg.Storage.SessionTTLHours)
	}

	if cfg.Naver.PlaceClientID == "" || cfg.Naver.PlaceClientSecret == "" {
		slog.Warn("place search credentials are empty: set naver.place_client_id/secret or PLACE_CLIENT_ID/PLACE_CLIENT_SECRET")
	}
	if cfg.Search.UseGeocoding && (cfg.Naver.GeoClientID == "" || cfg.Naver.GeoClientSecret == "") {
		slog.Warn("geocoding credentials are empty: set naver.geo_client_id/secret or GEO_CLIENT_ID/GEO_CLIENT_SECRET")
	}

	return nil
}

// SlogLevel converts the configured log level to a slog.Level.
func (c ServerConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
