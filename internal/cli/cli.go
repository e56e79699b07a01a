package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dfw-fab/fabsync/internal/config"
	"github.com/dfw-fab/fabsync/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fabsync",
		Short: "Sync Flesh and Blood tournament listings to Google Calendar",
		Long: `fabsync scrapes the official Flesh and Blood event listings, keeps the
majors plus nearby local events, and mirrors them onto a Google Calendar.
Runs are idempotent: re-running updates existing calendar entries in place.

Run without a subcommand to perform a sync.`,
		RunE: runSync,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "config.toml", "Path to TOML configuration file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	registerSyncFlags(cmd)

	cmd.AddCommand(
		newSyncCmd(),
		newCheckCmd(),
		newCleanCmd(),
		newHealthCmd(),
		newLogsCmd(),
		newNotifyCmd(),
		newExportCmd(),
	)
	return cmd
}

// loadConfig reads the configuration named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// newRunLogger builds the per-run logger, mirrored to a timestamped file in
// the configured log directory.
func newRunLogger(cfg *config.Config) (*logger.Logger, error) {
	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	log, err := logger.New(level, os.Stdout, cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
