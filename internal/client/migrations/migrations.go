// Package migrations embeds the goose SQL migrations that establish the local
// mirror store partitions. A schema version bump adds partitions; existing
// records are never migrated.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
