// Package cli implements the evmscan command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/evmscan/internal/config"
	"github.com/mrz1836/evmscan/internal/output"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter

	// configHome is the directory holding config.yaml.
	configHome string
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "evmscan",
	Short: "Scan EVM chains for native balances held by mnemonic-derived addresses",
	Long: `evmscan derives the first Ethereum address of every mnemonic in a seed list
and checks its native-currency balance across a catalog of EVM chains.

Chains are probed in two tiers: the first tier always runs, the second only
when the first already turned up enough distinct balances. Every unique
positive balance is appended to results.txt and to a low/medium/high file.

Example:
  evmscan scan --seeds seeds.txt --chains chain.json
  evmscan chains
  evmscan results runs --db results.db`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd.ErrOrStderr())
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if formatter != nil {
			_ = output.FormatError(os.Stderr, err, formatter.Format())
		} else {
			_ = output.FormatError(os.Stderr, err, output.FormatText)
		}
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return scanerr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
// Log lines are mirrored to console.
func initGlobals(console io.Writer) error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}
	configHome = config.ExpandHome(home)

	var err error
	cfg, err = config.Load(config.Path(configHome))
	switch {
	case err == nil:
	case scanerr.Is(err, scanerr.ErrConfigNotFound):
		cfg = config.Defaults()
	default:
		return err
	}

	config.ApplyEnvironment(cfg)

	// Command-line flags win over file and environment.
	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != string(output.FormatAuto) {
		cfg.Output.DefaultFormat = outputFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Resolve(cfg.Logging.File))
	if err != nil {
		// A log file we cannot open must not stop a scan.
		logger = config.NullLogger()
		logger.SetLevel(config.ParseLogLevel(cfg.Logging.Level))
	}
	logger.SetConsole(console)

	formatter = output.NewFormatter(output.ParseFormat(cfg.Output.DefaultFormat), os.Stdout)

	return nil
}

// emit writes v to the command's output in the resolved format.
func emit(cmd *cobra.Command, v any, text func(w io.Writer) error) error {
	f := formatter
	if f == nil {
		f = output.NewFormatter(output.FormatText, cmd.OutOrStdout())
	}
	return f.WithWriter(cmd.OutOrStdout()).Emit(v, text)
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "evmscan data directory (default: ~/.evmscan)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
