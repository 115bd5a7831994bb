package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the gophtasks CLI.
//
// Fields:
//   - ServerURL: base URL of the gophtasks HTTP API.
//   - SessionDB: path of the SQLite file keeping the signed-in session.
//   - RequestTimeout: limit for a single API call.
type Config struct {
	ServerURL      string
	SessionDB      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionDB = defaultSessionDB()
	c.RequestTimeout = 10 * time.Second
}

// Load applies defaults, then the JSON file at path (skipped when empty),
// then the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultSessionDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gophtasks-session.db"
	}
	return filepath.Join(dir, "gophtasks", "session.db")
}
