package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	// .env in the working directory, if any, is loaded into the environment
	_ "github.com/joho/godotenv/autoload"
)

// Environment variables read by parseEnv.
const (
	EnvServerBaseURL       = "PENGUIN_SERVER_URL"
	EnvDataDir             = "PENGUIN_DATA_DIR"
	EnvRequestTimeout      = "PENGUIN_REQUEST_TIMEOUT"
	EnvOnlineCheckInterval = "PENGUIN_ONLINE_CHECK_INTERVAL"
	EnvPageSize            = "PENGUIN_PAGE_SIZE"
	EnvRateLimit           = "PENGUIN_RATE_LIMIT"
	EnvLogLevel            = "PENGUIN_LOG_LEVEL"
	EnvLogBackend          = "PENGUIN_LOG_BACKEND"
)

// parseEnv overlays Config with PENGUIN_* variables. Durations use
// time.ParseDuration syntax. A malformed value panics, like a bad JSON file.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvServerBaseURL); ok && v != "" {
		cfg.ServerBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok && v != "" {
		cfg.RequestTimeout = mustDuration(EnvRequestTimeout, v)
	}
	if v, ok := os.LookupEnv(EnvOnlineCheckInterval); ok && v != "" {
		cfg.OnlineCheckInterval = mustDuration(EnvOnlineCheckInterval, v)
	}
	if v, ok := os.LookupEnv(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvPageSize, err))
		}
		cfg.PageSize = n
	}
	if v, ok := os.LookupEnv(EnvRateLimit); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRateLimit, err))
		}
		cfg.RateLimit = f
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogBackend); ok && v != "" {
		cfg.LogBackend = v
	}
}

func mustDuration(name, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	return d
}
