package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sdejongh/sheetdiff/internal/platform"
	"github.com/sdejongh/sheetdiff/pkg/config"
	"github.com/sdejongh/sheetdiff/pkg/logging"
	"github.com/sdejongh/sheetdiff/pkg/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// validateCompareFlags validates the compare command flags and arguments
func validateCompareFlags(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("process") && !models.ProcessMode(compareFlags.Process).Valid() {
		return &UsageError{
			Message: fmt.Sprintf("option -p or --process must be file or folder. Used: %s", compareFlags.Process),
			Usage:   cmd.UsageString(),
		}
	}

	for _, arg := range args {
		if err := platform.ValidatePath(arg); err != nil {
			return &UsageError{Message: err.Error(), Usage: cmd.UsageString()}
		}
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, string, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with the flags set on the command line
func applyFlagsToConfig(cfg *config.Config, flags *pflag.FlagSet) {
	if flags.Changed("process") {
		cfg.Compare.Process = models.ProcessMode(compareFlags.Process)
	}
	if flags.Changed("hash") {
		cfg.Compare.Hash = models.HashMethod(compareFlags.Hash)
	}
	if flags.Changed("algorithm") {
		cfg.Compare.Algorithm = models.DiffAlgorithm(compareFlags.Algorithm)
	}
	if flags.Changed("context") {
		cfg.Compare.ContextLines = compareFlags.Context
	}
	if flags.Changed("clean") {
		cfg.Compare.Clean = compareFlags.Clean
	}

	if flags.Changed("ui") {
		cfg.Visual.Enabled = compareFlags.Visual
	}
	if flags.Changed("tool") {
		cfg.Visual.Tool = compareFlags.Tool
	}

	if flags.Changed("color") {
		cfg.Output.Color = compareFlags.Color
	}
	if flags.Changed("report-file") {
		cfg.Output.ReportFile = compareFlags.ReportFile
	}

	// Exclude patterns
	if len(compareFlags.Exclude) > 0 {
		cfg.Exclude = compareFlags.Exclude
	}

	if flags.Changed("log-file") {
		cfg.Logging.File = compareFlags.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = compareFlags.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = compareFlags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createOperation creates a compare operation from configuration
func createOperation(cfg *config.Config, oldPath, newPath string) (*models.CompareOperation, error) {
	operation := &models.CompareOperation{
		ID:              uuid.New().String(),
		OldPath:         platform.NormalizePath(oldPath),
		NewPath:         platform.NormalizePath(newPath),
		Process:         cfg.Compare.Process,
		Hash:            cfg.Compare.Hash,
		Algorithm:       cfg.Compare.Algorithm,
		ContextLines:    cfg.Compare.ContextLines,
		Clean:           cfg.Compare.Clean,
		Visual:          cfg.Visual.Enabled,
		VisualTool:      cfg.Visual.Tool,
		ExcludePatterns: cfg.Exclude,
		BufferSize:      cfg.Compare.BufferSize,
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// createLogger builds the run logger: warnings on the console, and the
// configured level in the log file when one is set
func createLogger(cfg *config.Config, console io.Writer) (logging.Logger, error) {
	consoleLevel := logging.WarnLevel
	switch {
	case globalFlags.Verbose:
		consoleLevel = logging.DebugLevel
	case globalFlags.Quiet:
		consoleLevel = logging.ErrorLevel
	}

	logger, err := logging.New(logging.Config{
		Path:         cfg.Logging.File,
		Format:       logging.Format(cfg.Logging.Format),
		Level:        logging.ParseLevel(cfg.Logging.Level),
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		Console:      console,
		ConsoleLevel: consoleLevel,
	})
	if err != nil {
		return nil, err
	}
	return logger, nil
}
