// Package config loads runtime configuration for the gophtasks CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by the --config flag.
//  3. Environment variables GOPHTASKS_SERVER, GOPHTASKS_SESSION_DB and
//     GOPHTASKS_TIMEOUT.
//  4. Command-line flags (--server, --session-db), applied by the CLI.
//
// # JSON schema
//
// Timeouts use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "session_db": "/home/ana/.config/gophtasks/session.db",
//	  "request_timeout": "10s"
//	}
package config
