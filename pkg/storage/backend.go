package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file in a compared location
type FileInfo struct {
	Name    string // base name, no path prefix
	Path    string // absolute path on disk
	Size    int64
	ModTime time.Time
}

// Backend defines the read-only operations a comparison needs from a location
type Backend interface {
	// List returns the regular files directly under the root, sorted by name
	List(ctx context.Context) ([]FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, name string) (io.ReadCloser, error)

	// Stat returns file metadata
	Stat(ctx context.Context, name string) (*FileInfo, error)

	// Root returns the absolute root path of the backend
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
