// Package migrations embeds the auth schema so applications can apply
// it with pg.Migrate without shipping SQL files alongside the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
