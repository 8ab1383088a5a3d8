// Package migrations embeds the goose SQL migrations for the "user" and item tables.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
