package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type FileReader struct{}

func NewFileReader() *FileReader {
	return &FileReader{}
}

// Read only accepts absolute paths; relative paths would resolve against the
// server's working directory rather than the caller's project.
func (f *FileReader) Read(ctx context.Context, location string) ([]byte, error) {
	if !filepath.IsAbs(location) {
		return nil, fmt.Errorf("path %q is not absolute", location)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(location)
}
