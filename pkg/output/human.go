package output

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/sdejongh/sheetdiff/pkg/diff"
	"github.com/sdejongh/sheetdiff/pkg/models"
)

const noNewlineMarker = `\ No newline at end of file`

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer    io.Writer
	annotator Annotator
	quiet     bool
}

// NewHumanFormatter creates a new human-readable formatter.
// A nil annotator prints plain text. In quiet mode only the report is printed.
func NewHumanFormatter(annotator Annotator, quiet bool) *HumanFormatter {
	if annotator == nil {
		annotator = PlainAnnotator{}
	}
	return &HumanFormatter{
		writer:    io.Discard,
		annotator: annotator,
		quiet:     quiet,
	}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, op *models.CompareOperation) error {
	if writer != nil {
		f.writer = writer
	}
	return nil
}

// Converting announces a workbook conversion
func (f *HumanFormatter) Converting(path string) error {
	if f.quiet {
		return nil
	}
	_, err := fmt.Fprintf(f.writer, "Processing workbook: %s\n", path)
	return err
}

// Unchanged reports an identical file
func (f *HumanFormatter) Unchanged(name string) error {
	if f.quiet {
		return nil
	}
	_, err := fmt.Fprintf(f.writer, "%s %s\n", f.annotator.Paint(RoleUnchanged, "[NO_CHANGES]:"), name)
	return err
}

// Changed reports a differing file
func (f *HumanFormatter) Changed(name string) error {
	if f.quiet {
		return nil
	}
	_, err := fmt.Fprintf(f.writer, "%s %s\n", f.annotator.Paint(RoleChanged, "[DIFFERENT]:"), name)
	return err
}

// Diff prints each diff line, annotated
func (f *HumanFormatter) Diff(lines iter.Seq[diff.Line]) error {
	if f.quiet {
		return nil
	}
	for line := range lines {
		if _, err := fmt.Fprintln(f.writer, AnnotateLine(f.annotator, line)); err != nil {
			return err
		}
		if line.NoNewline {
			if _, err := fmt.Fprintln(f.writer, noNewlineMarker); err != nil {
				return err
			}
		}
	}
	return nil
}

// Complete prints the final report
func (f *HumanFormatter) Complete(report *models.ComparisonReport) error {
	w := f.writer

	fmt.Fprintf(w, "\n\n%s\n", f.annotator.Paint(RoleHeading, "*** REPORT ***"))
	fmt.Fprintf(w, "Changed files: %s\n", FormatNames(report.Changed))
	fmt.Fprintf(w, "Missing files: %s\n", FormatMissing(report.Missing))
	_, err := fmt.Fprintf(w, "Unchanged files: %d\n", len(report.Unchanged))
	return err
}

// Error reports an error, with a remediation hint when the error carries one
func (f *HumanFormatter) Error(err error) error {
	fmt.Fprintf(f.writer, "\n%s\n", f.annotator.Paint(RoleError, "ERROR: "+err.Error()))

	var hinted interface{ Remediation() string }
	if errors.As(err, &hinted) && hinted.Remediation() != "" {
		fmt.Fprintf(f.writer, "%s\n", f.annotator.Paint(RoleHint, hinted.Remediation()))
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
