package compare

import (
	"context"

	"github.com/sdejongh/sheetdiff/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are byte-identical
	Same Result = "same"
	// Different indicates files differ in at least one byte
	Different Result = "different"
)

// Comparison holds the result of comparing one file name across two locations
type Comparison struct {
	Name    string
	OldPath string
	NewPath string
	Result  Result
	Reason  string
	OldHash string
	NewHash string
}

// Comparator defines the interface for file comparison algorithms
type Comparator interface {
	// Compare compares the file called name in both backends
	Compare(ctx context.Context, old, new storage.Backend, name string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}
