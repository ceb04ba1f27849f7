// Package config loads runtime configuration for the penguin tracker CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. PENGUIN_* environment variables (see parseEnv); a .env file in the
//     working directory is loaded first.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   data directory
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-p int      page size
//	-r float    requests per second, 0 for unlimited
//	-l string   log level
//
// # JSON schema
//
// Durations are strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "data_dir": "/var/lib/penguintracker",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "page_size": 10,
//	  "rate_limit": 5,
//	  "log_level": "info",
//	  "log_backend": "zap"
//	}
package config
