package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/dfw-fab/fabsync/internal/calendar"
	"github.com/dfw-fab/fabsync/internal/config"
	"github.com/dfw-fab/fabsync/internal/logger"
)

var (
	flagWindowDays int
	flagCleanYes   bool
)

// newCalendarReconciler builds the reconciler the maintenance commands
// share with sync.
func newCalendarReconciler(ctx context.Context, cfg *config.Config, log *logger.Logger) (*calendar.Reconciler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	backend, err := calendar.NewGoogleBackend(ctx, cfg.CalendarID, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	return &calendar.Reconciler{
		Backend:           backend,
		Scope:             cfg.CalendarID,
		TZ:                loc,
		TZName:            cfg.Timezone,
		DefaultEventHours: cfg.DefaultEventHours,
		Log:               log,
	}, nil
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "List the calendar entries in the upcoming window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newRunLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			rec, err := newCalendarReconciler(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			from := time.Now()
			to := from.AddDate(0, 0, flagWindowDays)
			entries, err := rec.Window(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No calendar entries in window.")
				return nil
			}
			fmt.Printf("%d calendar entries between %s and %s:\n",
				len(entries), from.Format("2006-01-02"), to.Format("2006-01-02"))
			for _, entry := range entries {
				fmt.Printf("  %s  %s\n", entryDate(entry.Start), entry.Summary)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&flagWindowDays, "days", 365, "Window size in days from today")
	return cmd
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the calendar entries in the upcoming window",
		Long: `Deletes every entry starting in the window from the configured calendar.
This removes entries regardless of who created them; requires --yes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flagCleanYes {
				fmt.Fprintln(os.Stderr, "Refusing to delete without --yes.")
				return fmt.Errorf("confirmation required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newRunLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			rec, err := newCalendarReconciler(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			from := time.Now()
			to := from.AddDate(0, 0, flagWindowDays)
			deleted, err := rec.Clean(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d calendar entries.\n", deleted)
			return nil
		},
	}
	cmd.Flags().IntVar(&flagWindowDays, "days", 365, "Window size in days from today")
	cmd.Flags().BoolVar(&flagCleanYes, "yes", false, "Confirm deletion")
	return cmd
}

// entryDate renders an entry's start, which is a date for all-day entries
// and a timestamp otherwise.
func entryDate(start *gcal.EventDateTime) string {
	if start == nil {
		return "          "
	}
	if start.Date != "" {
		return start.Date
	}
	if t, err := time.Parse(time.RFC3339, start.DateTime); err == nil {
		return t.Format("2006-01-02 15:04")
	}
	return start.DateTime
}
