// Package migrations embeds the storefront's SQL schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
