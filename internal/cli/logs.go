package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dfw-fab/fabsync/internal/logger"
)

func newLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Print the most recent run log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path, err := logger.LatestLogFile(cfg.LogDir)
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Println("No log files found.")
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			fmt.Fprintf(os.Stderr, "== %s ==\n", path)
			os.Stdout.Write(data)
			return nil
		},
	}
}
