// Package migrations holds the schema of the client's local SQLite file.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
