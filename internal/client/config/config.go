// Package config loads runtime configuration for the task list CLI.
//
// Sources & precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via the -c or -config flags.
//  3. Command-line flags, which override earlier values.
package config

import "time"

// Config holds runtime settings for the task list CLI.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestDelay: artificial latency asked of the server on task
//     operations; useful for watching the optimistic cache at work.
type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	RequestDelay        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestDelay = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
