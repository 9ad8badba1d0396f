// Package migrations contains embedded SQL migrations for the dev backend store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
