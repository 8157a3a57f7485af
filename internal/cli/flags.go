package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/sheetdiff/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"print only the final report",
	)
}

// CompareFlags holds compare command flag values
type CompareFlags struct {
	Process    string
	Visual     bool
	Clean      bool
	Tool       string
	Algorithm  string
	Context    int
	Hash       string
	Color      string
	Exclude    []string
	ReportFile string
	LogFile    string
	LogFormat  string
	LogLevel   string
}

var compareFlags CompareFlags
