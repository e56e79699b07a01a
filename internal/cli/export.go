package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dfw-fab/fabsync/internal/calendar"
	"github.com/dfw-fab/fabsync/internal/storage"
)

var flagExportOut string

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an iCalendar file from the most recent sync feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return err
			}
			feed, err := store.LoadFeed()
			if err != nil {
				return err
			}
			if len(feed.Events) == 0 {
				return fmt.Errorf("no feed found; run a sync first")
			}

			scope := feed.CalendarID
			if scope == "" {
				scope = cfg.CalendarID
			}
			ics := calendar.GenerateICS(scope, feed.Candidates(), cfg.DefaultEventHours)

			if flagExportOut == "-" {
				fmt.Print(ics)
				return nil
			}
			if err := os.WriteFile(flagExportOut, []byte(ics), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", flagExportOut, err)
			}
			fmt.Printf("Wrote %d events to %s\n", len(feed.Events), flagExportOut)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagExportOut, "out", "events.ics", "Output path, or - for stdout")
	return cmd
}
