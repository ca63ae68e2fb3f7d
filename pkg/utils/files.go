package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// Source is a C source file read from disk.
type Source struct {
	Path string // absolute path of the file
	Dir  string // directory quoted includes resolve against
	Text string
}

// ReadSource resolves relPath against the working directory and reads it.
func ReadSource(relPath string) (Source, error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err := filepath.Abs(relPath)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read source: %w", err)
	}
	return Source{
		Path: fullPath,
		Dir:  filepath.Dir(fullPath),
		Text: string(data),
	}, nil
}
