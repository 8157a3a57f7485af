package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sdejongh/sheetdiff/pkg/compare"
	"github.com/sdejongh/sheetdiff/pkg/config"
	"github.com/sdejongh/sheetdiff/pkg/logging"
	"github.com/sdejongh/sheetdiff/pkg/output"
	"github.com/sdejongh/sheetdiff/pkg/runner"
	"github.com/sdejongh/sheetdiff/pkg/visual"
	"github.com/sdejongh/sheetdiff/pkg/workbook"
	"github.com/spf13/cobra"
)

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare OLD NEW",
		Short: "Compare two workbooks or two folders of CSV files",
		Long: `Compare OLD against NEW and report unchanged, changed and missing files.

With --process file (the default) OLD and NEW are Excel workbooks; every
sheet is converted to CSV in a temporary folder that is removed afterwards.
With --process folder OLD and NEW are folders of CSV files.

Files are first compared by digest; differing files are shown as a unified
diff, or opened in an external visual diff tool with --ui. The exit status
is 0 whenever the comparison completes, even when differences were found.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	defaults := config.Default()

	cmd.Flags().StringVarP(&compareFlags.Process, "process", "p", string(defaults.Compare.Process), "what OLD and NEW are: file (workbooks) or folder (CSV folders)")
	cmd.Flags().BoolVar(&compareFlags.Visual, "ui", false, "open changed files in a visual diff tool instead of printing diffs")
	cmd.Flags().BoolVar(&compareFlags.Clean, "clean", false, "print only changed lines, without context")
	cmd.Flags().StringVar(&compareFlags.Tool, "tool", defaults.Visual.Tool, "visual diff program used with --ui")
	cmd.Flags().StringVar(&compareFlags.Algorithm, "algorithm", string(defaults.Compare.Algorithm), "line diff algorithm: difflib, myers")
	cmd.Flags().IntVarP(&compareFlags.Context, "context", "U", defaults.Compare.ContextLines, "number of context lines around each change")
	cmd.Flags().StringVar(&compareFlags.Hash, "hash", string(defaults.Compare.Hash), "how changed files are detected: md5, sha256, binary")
	cmd.Flags().StringVar(&compareFlags.Color, "color", defaults.Output.Color, "colour diff output: auto, always, never")
	cmd.Flags().StringSliceVar(&compareFlags.Exclude, "exclude", nil, "glob patterns of file names to skip (repeatable)")
	cmd.Flags().StringVar(&compareFlags.ReportFile, "report-file", "", "also write the report to this file")
	cmd.Flags().StringVar(&compareFlags.LogFile, "log-file", "", "write logs to this file")
	cmd.Flags().StringVar(&compareFlags.LogFormat, "log-format", defaults.Logging.Format, "log file format: text, json")
	cmd.Flags().StringVar(&compareFlags.LogLevel, "log-level", defaults.Logging.Level, "log file level: debug, info, warn, error")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := validateCompareFlags(cmd, args); err != nil {
		return err
	}

	// Load configuration
	cfg, source, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cfg, cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return err
	}

	operation, err := createOperation(cfg, args[0], args[1])
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger, err := createLogger(cfg, stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	if source != "" {
		logger.Debug(ctx, "Configuration loaded", logging.Fields{"source": source})
	}

	// Create output formatter
	out := cmd.OutOrStdout()
	annotator := output.NewAnnotator(output.ColorMode(cfg.Output.Color), out)
	if f, ok := out.(*os.File); ok {
		out = colorableWriter(f, annotator)
	}
	formatter := output.NewHumanFormatter(annotator, cfg.Output.Quiet)
	if err := formatter.Start(out, operation); err != nil {
		return err
	}

	comparator := compare.New(string(operation.Hash), operation.BufferSize)
	if comparator == nil {
		return fmt.Errorf("unsupported hash method: %s (use: md5, sha256, binary)", operation.Hash)
	}

	progress := output.NewProgress(stderr, cfg.Output.Progress && !cfg.Output.Quiet)
	converter := workbook.NewExcelConverter(progress, logger)

	launcher := visual.NewLauncher(operation.VisualTool)
	launcher.Stdout = stderr
	launcher.Stderr = stderr

	r := runner.New(operation, comparator, formatter, logger, converter, launcher)

	report, err := r.Run(ctx)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	// Write report file if requested
	if cfg.Output.ReportFile != "" {
		if err := output.WriteReport(report, cfg.Output.ReportFile); err != nil {
			return err
		}
	}

	return nil
}
