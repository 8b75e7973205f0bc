package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"kakeistat/internal/platform/estat"
)

type Config struct {
	AppID             string
	BaseURL           string
	PageSize          int
	RequestsPerSecond float64
	CountTimeout      time.Duration
	FetchTimeout      time.Duration

	CatalogPath string
	SaveDir     string
	Addr        string
}

// LoadEnvFiles reads .env and .env.local. Variables already present in the
// process environment are left alone.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds a Config from the environment. ESTAT_APP_ID may be empty; the
// client reports it as a configuration error when a request is made.
func Load() (Config, error) {
	cfg := Config{
		AppID:       os.Getenv("ESTAT_APP_ID"),
		BaseURL:     getEnv("ESTAT_BASE_URL", estat.DefaultBaseURL),
		CatalogPath: getEnv("CATALOG_PATH", "cache/kakei_2025_cache.json"),
		SaveDir:     getEnv("DATA_SAVE_DIR", "./data"),
		Addr:        getEnv("APP_ADDR", ":8080"),
	}

	var err error
	if cfg.PageSize, err = getEnvInt("ESTAT_PAGE_SIZE", estat.DefaultPageSize); err != nil {
		return Config{}, err
	}
	if cfg.RequestsPerSecond, err = getEnvFloat("ESTAT_RPS", 2); err != nil {
		return Config{}, err
	}
	if cfg.CountTimeout, err = getEnvDuration("ESTAT_COUNT_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = getEnvDuration("ESTAT_FETCH_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("ESTAT_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}

// Client returns the e-Stat client settings.
func (c Config) Client() estat.Config {
	return estat.Config{
		BaseURL:           c.BaseURL,
		AppID:             c.AppID,
		PageSize:          c.PageSize,
		CountTimeout:      c.CountTimeout,
		FetchTimeout:      c.FetchTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
