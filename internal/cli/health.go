package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dfw-fab/fabsync/internal/calendar"
	"github.com/dfw-fab/fabsync/internal/health"
	"github.com/dfw-fab/fabsync/internal/notifier"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Verify the sync is ready to run",
		Long: `Runs readiness checks: configuration, credentials, log directory,
source reachability and calendar access. Failures are reported to the
Discord webhook when one is configured. Exits non-zero on any failure.`,
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

			checks := []health.Check{
				health.ConfigCheck(cfg),
				health.CredentialFileCheck(cfg.CredentialsFile),
				health.LogDirCheck(cfg.LogDir),
			}
			if cfg.LocalURL != "" {
				checks = append(checks, health.SourceCheck("local source", cfg.LocalURL))
			}
			if cfg.GlobalURL != "" {
				checks = append(checks, health.SourceCheck("global source", cfg.GlobalURL))
			}
			if backend, err := calendar.NewGoogleBackend(cmd.Context(), cfg.CalendarID, cfg.CredentialsFile); err != nil {
				log.Error("Calendar backend setup failed", nil, err)
			} else {
				checks = append(checks, health.CalendarCheck(backend))
			}

			runner := &health.Runner{Checks: checks, Log: log}
			if cfg.DiscordWebhookURL != "" {
				if n, err := notifier.NewDiscordNotifier(cfg.DiscordWebhookURL); err == nil {
					runner.Notifier = n
				}
			}

			results, ok := runner.Run(cmd.Context())
			for _, res := range results {
				status := "ok"
				if res.Err != nil {
					status = "FAILED: " + res.Err.Error()
				}
				fmt.Printf("  %-16s %s\n", res.Name, status)
			}
			if !ok {
				return fmt.Errorf("health check failed")
			}
			fmt.Println("All checks passed.")
			return nil
		},
	}
}
