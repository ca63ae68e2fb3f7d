// Package lib embeds the system headers available to #include <...>.
package lib

import (
	"embed"
	"io/fs"
)

//go:embed _c_files
var CFiles embed.FS

// Headers is CFiles rooted at the header directory, so "stdio.h" names
// _c_files/stdio.h.
func Headers() fs.FS {
	sub, err := fs.Sub(CFiles, "_c_files")
	if err != nil {
		panic(err)
	}
	return sub
}
