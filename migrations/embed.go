// Package migrations embeds the goose SQL migrations of each bounded context.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed inventory/*.sql
var files embed.FS

// Inventory returns the inventory migrations rooted at their directory.
func Inventory() fs.FS {
	sub, err := fs.Sub(files, "inventory")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}
