package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/sheetdiff/pkg/models"
)

// WriteReport writes a plain-text copy of the report to a file
func WriteReport(report *models.ComparisonReport, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := writeReport(report, file); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return file.Close()
}

func writeReport(report *models.ComparisonReport, w io.Writer) error {
	fmt.Fprintf(w, "Comparison Report\n")
	fmt.Fprintf(w, "=================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Operation: %s\n", report.OperationID)
	fmt.Fprintf(w, "Old: %s\n", report.OldPath)
	fmt.Fprintf(w, "New: %s\n", report.NewPath)
	fmt.Fprintf(w, "Process: %s\n", report.Process)
	fmt.Fprintf(w, "Duration: %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Status: %s\n\n", report.Status)

	fmt.Fprintf(w, "Changed files: %s\n", FormatNames(report.Changed))
	fmt.Fprintf(w, "Missing files: %s\n", FormatMissing(report.Missing))
	fmt.Fprintf(w, "Unchanged files: %d\n", len(report.Unchanged))

	sections := []struct {
		label string
		names []string
	}{
		{"Changed", report.Changed},
		{"Missing", report.Missing},
		{"Unchanged", report.Unchanged},
	}

	for _, s := range sections {
		if len(s.names) == 0 {
			continue
		}
		label := fmt.Sprintf("%s (%d files)", s.label, len(s.names))
		fmt.Fprintf(w, "\n%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))
		for _, name := range s.names {
			if _, err := fmt.Fprintf(w, "  %s\n", name); err != nil {
				return err
			}
		}
	}

	return nil
}
