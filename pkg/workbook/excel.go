// Package workbook splits spreadsheet workbooks into one CSV file per sheet.
package workbook

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdejongh/sheetdiff/pkg/logging"
	"github.com/sdejongh/sheetdiff/pkg/output"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are not OOXML workbooks
var ErrUnsupportedFormat = errors.New("unsupported workbook format")

var supportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// Supported reports whether path has a workbook extension the converter reads
func Supported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// FormatError reports a file the converter cannot read.
// It matches ErrUnsupportedFormat with errors.Is.
type FormatError struct {
	Path string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedFormat, e.Path)
}

func (e *FormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// Remediation suggests how to make the file readable
func (e *FormatError) Remediation() string {
	switch strings.ToLower(filepath.Ext(e.Path)) {
	case ".xls", ".xlt":
		return "legacy .xls workbooks are not read; save the file as .xlsx and compare again"
	case ".ods":
		return "OpenDocument spreadsheets are not read; save the file as .xlsx and compare again"
	default:
		return "supported workbook types: .xlsx, .xlsm, .xltx, .xltm"
	}
}

// ExcelConverter writes every sheet of a workbook to a scratch directory
type ExcelConverter struct {
	// TempDir is the parent of scratch directories; empty uses os.TempDir
	TempDir  string
	Progress output.Progress
	Logger   logging.Logger
}

// NewExcelConverter creates a converter; nil progress and logger are allowed
func NewExcelConverter(progress output.Progress, logger logging.Logger) *ExcelConverter {
	if progress == nil {
		progress = output.NewProgress(nil, false)
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &ExcelConverter{Progress: progress, Logger: logger}
}

// Convert creates a fresh scratch directory holding "<sheet>.csv" for each sheet
// of the workbook at path and returns the directory. The caller owns the
// directory; on failure it has already been removed.
func (c *ExcelConverter) Convert(ctx context.Context, path string) (string, error) {
	if !Supported(path) {
		return "", &FormatError{Path: path}
	}

	book, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer book.Close()

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dir, err := os.MkdirTemp(c.TempDir, "sheetdiff-"+base+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}

	if err := c.writeSheets(ctx, book, dir); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			c.Logger.Warn(ctx, "Failed to remove scratch directory", logging.Fields{"path": dir, "error": rmErr.Error()})
		}
		return "", fmt.Errorf("failed to convert workbook %s: %w", path, err)
	}

	return dir, nil
}

func (c *ExcelConverter) writeSheets(ctx context.Context, book *excelize.File, dir string) error {
	sheets := book.GetSheetList()

	c.Progress.Start(filepath.Base(dir), len(sheets))
	defer c.Progress.Finish()

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := book.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if err := writeCSV(filepath.Join(dir, sheet+".csv"), rows); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet, err)
		}

		c.Logger.Debug(ctx, "Converted sheet", logging.Fields{"sheet": sheet, "rows": len(rows)})
		c.Progress.Increment()
	}

	return nil
}

// writeCSV writes rows padded to the widest row, since excelize trims trailing empty cells
func writeCSV(path string, rows [][]string) error {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	for _, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

// Cleanup removes each path, logging failures instead of returning them
func Cleanup(ctx context.Context, paths []string, logger logging.Logger) {
	for _, path := range paths {
		if err := os.RemoveAll(path); err != nil {
			logger.Warn(ctx, "Failed to remove scratch directory", logging.Fields{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}
