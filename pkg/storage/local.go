package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local is a filesystem-based storage backend rooted at one directory
type Local struct {
	rootPath string
}

// NewLocal creates a new local filesystem backend
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	return &Local{rootPath: absPath}, nil
}

// List returns the regular files directly under the root.
// Symlinks count when they resolve to a regular file; subdirectories,
// dangling links and other special entries are skipped.
func (l *Local) List(ctx context.Context) ([]FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// os.ReadDir returns entries sorted by filename
	entries, err := os.ReadDir(l.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		var info os.FileInfo
		switch {
		case entry.Type().IsRegular():
			info, err = entry.Info()
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
			}
		case entry.Type()&os.ModeSymlink != 0:
			info, err = os.Stat(filepath.Join(l.rootPath, entry.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		default:
			continue
		}

		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(l.rootPath, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(l.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, name string) (*FileInfo, error) {
	fullPath := l.path(name)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileInfo{
		Name:    info.Name(),
		Path:    fullPath,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Root returns the absolute root directory
func (l *Local) Root() string {
	return l.rootPath
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func (l *Local) path(name string) string {
	return filepath.Join(l.rootPath, name)
}
