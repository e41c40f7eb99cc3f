// Package migrations embeds the SQL files that bootstrap the server schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
