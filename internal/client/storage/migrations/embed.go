// Package migrations embeds the goose migrations for the local data file.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
