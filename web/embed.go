// Package web holds the static browser assets, embedded into the binary so
// deployment is a single file.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var assets embed.FS

// Static returns the static asset tree rooted at the directory that is
// served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}
