// Package runner drives a comparison run over two folders or two workbooks.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/sheetdiff/pkg/compare"
	"github.com/sdejongh/sheetdiff/pkg/diff"
	"github.com/sdejongh/sheetdiff/pkg/logging"
	"github.com/sdejongh/sheetdiff/pkg/models"
	"github.com/sdejongh/sheetdiff/pkg/output"
	"github.com/sdejongh/sheetdiff/pkg/storage"
	"github.com/sdejongh/sheetdiff/pkg/workbook"
)

// Converter turns a workbook into a fresh directory of per-sheet CSV files.
// The caller removes the directory.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// Launcher opens two files in an external diff tool and waits for it
type Launcher interface {
	Launch(ctx context.Context, oldPath, newPath string) error
}

// Runner orchestrates a comparison run
type Runner struct {
	comparator compare.Comparator
	formatter  output.Formatter
	logger     logging.Logger
	operation  *models.CompareOperation
	converter  Converter
	launcher   Launcher
}

// New creates a runner. The converter is only needed for workbook runs and
// the launcher only for visual runs.
func New(
	operation *models.CompareOperation,
	comparator compare.Comparator,
	formatter output.Formatter,
	logger logging.Logger,
	converter Converter,
	launcher Launcher,
) *Runner {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Runner{
		comparator: comparator,
		formatter:  formatter,
		logger:     logger,
		operation:  operation,
		converter:  converter,
		launcher:   launcher,
	}
}

// Run executes the operation and prints the final report.
// Any error aborts the run and no report is returned.
func (r *Runner) Run(ctx context.Context) (*models.ComparisonReport, error) {
	op := r.operation
	logger := r.logger.WithFields(logging.Fields{"operation_id": op.ID})
	logger.Info(ctx, "Starting comparison", logging.Fields{
		"old":     op.OldPath,
		"new":     op.NewPath,
		"process": string(op.Process),
	})

	var (
		report *models.ComparisonReport
		err    error
	)
	switch op.Process {
	case models.ProcessFolder:
		report, err = r.CompareFolders(ctx, op.OldPath, op.NewPath)
	case models.ProcessFile:
		report, err = r.CompareWorkbooks(ctx, op.OldPath, op.NewPath)
	default:
		err = &models.ValidationError{
			Field:   "Process",
			Message: fmt.Sprintf("must be file or folder, got %q", op.Process),
		}
	}
	if err != nil {
		logger.Error(ctx, "Comparison failed", err, nil)
		return nil, err
	}

	logger.Info(ctx, "Comparison complete", logging.Fields{
		"unchanged": len(report.Unchanged),
		"changed":   len(report.Changed),
		"missing":   len(report.Missing),
		"duration":  report.Duration.String(),
	})

	if err := r.formatter.Complete(report); err != nil {
		return nil, fmt.Errorf("failed to print report: %w", err)
	}
	return report, nil
}

// CompareFolders compares the CSV files directly under oldDir and newDir
func (r *Runner) CompareFolders(ctx context.Context, oldDir, newDir string) (*models.ComparisonReport, error) {
	report := r.newReport(oldDir, newDir)

	if err := r.compareFolders(ctx, oldDir, newDir, report); err != nil {
		return nil, err
	}

	report.Finish(models.StatusSuccess)
	return report, nil
}

// CompareWorkbooks converts both workbooks to scratch folders and compares them.
// Scratch folders are removed however the comparison ends.
func (r *Runner) CompareWorkbooks(ctx context.Context, oldBook, newBook string) (*models.ComparisonReport, error) {
	if r.converter == nil {
		return nil, fmt.Errorf("no workbook converter configured")
	}

	var scratch []string
	defer func() {
		workbook.Cleanup(ctx, scratch, r.logger)
	}()

	dirs := make([]string, 0, 2)
	for _, book := range []string{oldBook, newBook} {
		if err := r.formatter.Converting(book); err != nil {
			return nil, err
		}
		dir, err := r.converter.Convert(ctx, book)
		if err != nil {
			return nil, err
		}
		scratch = append(scratch, dir)
		dirs = append(dirs, dir)
		r.logger.Debug(ctx, "Workbook converted", logging.Fields{"workbook": book, "dir": dir})
	}

	report := r.newReport(oldBook, newBook)
	if err := r.compareFolders(ctx, dirs[0], dirs[1], report); err != nil {
		return nil, err
	}

	report.Finish(models.StatusSuccess)
	return report, nil
}

func (r *Runner) newReport(oldPath, newPath string) *models.ComparisonReport {
	return &models.ComparisonReport{
		OperationID: r.operation.ID,
		OldPath:     oldPath,
		NewPath:     newPath,
		Process:     r.operation.Process,
		StartTime:   time.Now(),
	}
}

func (r *Runner) compareFolders(ctx context.Context, oldDir, newDir string, report *models.ComparisonReport) error {
	oldBackend, err := storage.NewLocal(oldDir)
	if err != nil {
		return err
	}
	defer oldBackend.Close()

	newBackend, err := storage.NewLocal(newDir)
	if err != nil {
		return err
	}
	defer newBackend.Close()

	oldFiles, err := oldBackend.List(ctx)
	if err != nil {
		return err
	}
	newFiles, err := newBackend.List(ctx)
	if err != nil {
		return err
	}

	oldNames := names(oldFiles, r.operation.ExcludePatterns)
	newNames := names(newFiles, r.operation.ExcludePatterns)

	report.Missing = compare.Reconcile(oldNames, newNames)

	present := make(map[string]bool, len(newNames))
	for _, name := range newNames {
		present[name] = true
	}

	for _, name := range oldNames {
		if !present[name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		cmp, err := r.comparator.Compare(ctx, oldBackend, newBackend, name)
		if err != nil {
			return err
		}
		r.logger.Debug(ctx, "Compared file", logging.Fields{
			"file":   name,
			"result": string(cmp.Result),
		})

		if cmp.Result == compare.Same {
			report.Unchanged = append(report.Unchanged, name)
			if err := r.formatter.Unchanged(name); err != nil {
				return err
			}
			continue
		}

		report.Changed = append(report.Changed, name)
		if err := r.formatter.Changed(name); err != nil {
			return err
		}
		if err := r.showDifference(ctx, oldBackend, newBackend, cmp); err != nil {
			return err
		}
	}

	return nil
}

// showDifference opens the visual tool or prints the line diff of a changed file
func (r *Runner) showDifference(ctx context.Context, oldBackend, newBackend storage.Backend, cmp *compare.Comparison) error {
	if r.operation.Visual {
		if r.launcher == nil {
			return fmt.Errorf("no visual diff launcher configured")
		}
		return r.launcher.Launch(ctx, cmp.OldPath, cmp.NewPath)
	}

	oldData, err := readAll(ctx, oldBackend, cmp.Name)
	if err != nil {
		return err
	}
	newData, err := readAll(ctx, newBackend, cmp.Name)
	if err != nil {
		return err
	}

	d, err := diff.Compute(diff.Decode(oldData), diff.Decode(newData), diff.Options{
		FromFile:  cmp.OldPath,
		ToFile:    cmp.NewPath,
		Context:   r.operation.ContextLines,
		Algorithm: diff.Algorithm(r.operation.Algorithm),
	})
	if err != nil {
		return err
	}

	stats := d.Stats()
	r.logger.Debug(ctx, "Computed diff", logging.Fields{
		"file":    cmp.Name,
		"added":   stats.Added,
		"removed": stats.Removed,
		"hunks":   stats.Hunks,
	})

	lines := d.Lines()
	if r.operation.Clean {
		lines = diff.Clean(lines)
	}
	return r.formatter.Diff(lines)
}

func readAll(ctx context.Context, backend storage.Backend, name string) ([]byte, error) {
	reader, err := backend.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
