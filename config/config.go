package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultEdinetBaseURL = "https://api.edinet-fsa.go.jp/api/v2"

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL    string
	APIKey   string
	BaseURL  string
	Port     string
	LogLevel string

	MaxConcurrency int
	RatePerSec     float64
	RequestTimeout time.Duration
	ScanSchedule   string
	StrideDays     int
}

// Load reads configuration from environment variables.
// A .env file in the working directory is read first; values already set in the
// shell environment are not overridden by it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	apiKey := os.Getenv("EDINET_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("EDINET_API_KEY environment variable is required")
	}

	cfg := &Config{
		PGURL:    pgURL,
		APIKey:   apiKey,
		BaseURL:  getEnv("EDINET_BASE_URL", defaultEdinetBaseURL),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ScanSchedule: strings.ToLower(strings.TrimSpace(getEnv("EDINET_SCAN_SCHEDULE", "season"))),
	}

	var err error
	if cfg.MaxConcurrency, err = getEnvInt("EDINET_MAX_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.StrideDays, err = getEnvInt("EDINET_SCAN_STRIDE_DAYS", 7); err != nil {
		return nil, err
	}

	rate := getEnv("EDINET_RATE_PER_SEC", "5")
	cfg.RatePerSec, err = strconv.ParseFloat(rate, 64)
	if err != nil || cfg.RatePerSec <= 0 {
		return nil, fmt.Errorf("EDINET_RATE_PER_SEC must be a positive number, got %q", rate)
	}

	timeout := getEnv("EDINET_REQUEST_TIMEOUT", "30s")
	cfg.RequestTimeout, err = time.ParseDuration(timeout)
	if err != nil || cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("EDINET_REQUEST_TIMEOUT must be a positive duration, got %q", timeout)
	}

	switch cfg.ScanSchedule {
	case "season", "stride", "daily":
	default:
		return nil, fmt.Errorf("EDINET_SCAN_SCHEDULE must be one of season, stride, daily; got %q", cfg.ScanSchedule)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
