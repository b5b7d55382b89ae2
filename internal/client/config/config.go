// Package config assembles the runtime settings of the Shelfie client from
// defaults, an optional JSON file and command-line flags, in that order of
// precedence.
package config

import "time"

// Config holds runtime settings for the Shelfie CLI.
//
// Fields:
//   - AuthServerAddr: base URL of the Shelfie backend.
//   - AuthTimeout: hard bound on login/logout/refresh calls.
//   - RequestTimeout: bound on collection and profile calls.
//   - DatabasePath: location of the local credential store.
type Config struct {
	AuthServerAddr string
	AuthTimeout    time.Duration
	RequestTimeout time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthServerAddr = "http://localhost:8080"
	c.AuthTimeout = 10 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "shelfie.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
