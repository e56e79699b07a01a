// Package notifier delivers run alerts. The sync posts to the notifier
// only when something went wrong; a healthy run stays silent.
package notifier

import "context"

// Notifier defines the interface for posting run alerts
type Notifier interface {
	// Notify delivers one alert message
	Notify(ctx context.Context, message string) error
}
