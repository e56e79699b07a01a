package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dfw-fab/fabsync/internal/notifier"
)

var flagNotifyMessage string

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a test message to the Discord webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var n notifier.Notifier
			if flagDryRun {
				n = notifier.NewDryRunNotifier()
			} else {
				n, err = notifier.NewDiscordNotifier(cfg.DiscordWebhookURL)
				if err != nil {
					return err
				}
			}

			if err := n.Notify(cmd.Context(), flagNotifyMessage); err != nil {
				return err
			}
			if !flagDryRun {
				fmt.Println("Message delivered.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagNotifyMessage, "message", "fabsync test notification", "Message to send")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the message instead of posting it")
	return cmd
}
