// Package runtimeembed provides the embedded JavaScript sources of the
// interop helpers.
package runtimeembed

import (
	"embed"
	"io/fs"
)

//go:embed helpers/*.js
var helpersFS embed.FS

// HelpersFS exposes the helper sources. Each file declares one function
// named after the file with a leading underscore.
func HelpersFS() fs.FS {
	return helpersFS
}
