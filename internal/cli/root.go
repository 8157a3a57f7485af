package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/sdejongh/sheetdiff/pkg/output"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the sheetdiff command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetdiff",
		Short: "Compare CSV folders and Excel workbooks",
		Long: `sheetdiff compares two Excel workbooks sheet by sheet, or two folders
of CSV files, and reports which files are unchanged, which differ (with a
unified line diff or an external visual diff tool) and which are missing
from the new side.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// colorableWriter wraps terminal files so ANSI sequences render on Windows consoles
func colorableWriter(f *os.File, annotator output.Annotator) io.Writer {
	if _, plain := annotator.(output.PlainAnnotator); plain {
		return f
	}
	return colorable.NewColorable(f)
}
