package output

import (
	"io"
	"iter"

	"github.com/sdejongh/sheetdiff/pkg/diff"
	"github.com/sdejongh/sheetdiff/pkg/models"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	// Start initializes the formatter for a new comparison run
	Start(writer io.Writer, op *models.CompareOperation) error

	// Converting announces that a workbook is being split into sheets
	Converting(path string) error

	// Unchanged reports a file that is identical on both sides
	Unchanged(name string) error

	// Changed reports a file whose contents differ
	Changed(name string) error

	// Diff prints the lines of a changed file's diff
	Diff(lines iter.Seq[diff.Line]) error

	// Complete finalizes output and displays the report
	Complete(report *models.ComparisonReport) error

	// Error reports an error that aborted the run
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
