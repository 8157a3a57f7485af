package runner

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sdejongh/sheetdiff/pkg/storage"
)

// shouldExclude reports whether a file name matches any of the glob patterns.
// Patterns use doublestar syntax; malformed patterns never match.
func shouldExclude(name string, patterns []string) bool {
	name = filepath.ToSlash(name)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if matched, err := doublestar.Match(filepath.ToSlash(pattern), name); err == nil && matched {
			return true
		}
	}
	return false
}

// names returns the names of the listed files that are not excluded
func names(files []storage.FileInfo, patterns []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if !shouldExclude(f.Name, patterns) {
			out = append(out, f.Name)
		}
	}
	return out
}
