// Package migrations embeds and applies the schema for the persistent backends.
package migrations

import "embed"

//go:embed postgres/*.sql
var PostgresFS embed.FS

//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
