package config

import "time"

// Config holds runtime settings for the penguin tracker CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API.
//   - DataDir: directory holding the local database and device key.
//   - RequestTimeout: bound on every backend request, 0 means none.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - PageSize: records per list page.
//   - RateLimit: outbound requests per second, 0 means unlimited.
//   - LogLevel / LogBackend: see logging.ParseLevel and logging.Backend.
type Config struct {
	ServerBaseURL       string
	DataDir             string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	PageSize            int
	RateLimit           float64
	LogLevel            string
	LogBackend          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DataDir = "."
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.PageSize = 10
	c.RateLimit = 0
	c.LogLevel = "warn"
	c.LogBackend = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
