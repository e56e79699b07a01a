package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const discordTimeout = 15 * time.Second

// discordMessageLimit is Discord's maximum message length, in characters.
const discordMessageLimit = 2000

// DiscordNotifier posts alerts to a Discord channel webhook.
type DiscordNotifier struct {
	rest       *resty.Client
	webhookURL string
}

// NewDiscordNotifier creates a notifier for the given webhook URL.
func NewDiscordNotifier(webhookURL string) (*DiscordNotifier, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("missing Discord webhook URL")
	}
	rest := resty.New().SetTimeout(discordTimeout)
	return &DiscordNotifier{rest: rest, webhookURL: webhookURL}, nil
}

// Notify posts one message to the webhook. Discord answers 204 on success.
func (n *DiscordNotifier) Notify(ctx context.Context, message string) error {
	if runes := []rune(message); len(runes) > discordMessageLimit {
		message = string(runes[:discordMessageLimit-3]) + "..."
	}

	resp, err := n.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"content": message}).
		Post(n.webhookURL)
	if err != nil {
		return fmt.Errorf("posting to Discord webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("posting to Discord webhook: unexpected status code %d", resp.StatusCode())
	}
	return nil
}
