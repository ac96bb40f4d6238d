package storage

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Reader loads the raw bytes behind a caller-supplied location.
type Reader interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

// ErrUnsupportedLocation is returned when no backend is configured for a location.
var ErrUnsupportedLocation = errors.New("unsupported location")

// Mux routes s3:// locations to the S3 reader and everything else to the
// local filesystem reader.
type Mux struct {
	Local Reader
	S3    Reader
}

func NewMux(local, s3 Reader) *Mux {
	return &Mux{Local: local, S3: s3}
}

func (m *Mux) Read(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, s3Scheme) {
		if m.S3 == nil {
			return nil, ErrUnsupportedLocation
		}
		return m.S3.Read(ctx, location)
	}
	if m.Local == nil {
		return nil, ErrUnsupportedLocation
	}
	return m.Local.Read(ctx, location)
}

// TestReader is a simple in-memory implementation for testing
type TestReader struct {
	files map[string][]byte
	reads []string
}

func NewTestReader(files map[string][]byte) *TestReader {
	if files == nil {
		files = map[string][]byte{}
	}
	return &TestReader{files: files}
}

func (t *TestReader) Read(ctx context.Context, location string) ([]byte, error) {
	t.reads = append(t.reads, location)
	b, ok := t.files[location]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: location, Err: os.ErrNotExist}
	}
	return b, nil
}

// Reads returns every location requested so far.
func (t *TestReader) Reads() []string {
	return t.reads
}
