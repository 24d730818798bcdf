// Package migrations embeds the platform's SQL schema migrations so
// binaries can apply them without a checkout on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
