package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Upstream endpoints. The SWPC URL has a default; the prediction API is
	// optional and its source is only registered when a URL is set.
	SWPCOutlookURL   string
	PredictionAPIURL string

	// FetchInterval controls how often the scheduler re-syncs all sources.
	FetchInterval time.Duration

	// HTTPTimeout applies to the shared outbound HTTP client.
	HTTPTimeout time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of issues per source (0 = unlimited)
	StoreMaxAge     time.Duration // max age of issues (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.SWPCOutlookURL = os.Getenv("SWPC_OUTLOOK_URL")
	cfg.PredictionAPIURL = os.Getenv("PREDICTION_API_URL")

	// Sync interval: the outlook product updates daily, default 6 hours.
	intervalStr := getenvDefault("FETCH_INTERVAL", "6h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "20s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 30)

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "720h") // 30 days
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
