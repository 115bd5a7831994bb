package config

import (
	"fmt"
	"os"
	"time"
)

func parseEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("GOPHTASKS_SERVER"); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv("GOPHTASKS_SESSION_DB"); ok && v != "" {
		cfg.SessionDB = v
	}
	if v, ok := os.LookupEnv("GOPHTASKS_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GOPHTASKS_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
