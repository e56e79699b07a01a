package notifier

import (
	"context"
	"fmt"
)

// DryRunNotifier prints what would be sent without actually posting
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the alert that would be posted
func (n *DryRunNotifier) Notify(_ context.Context, message string) error {
	fmt.Println("--- Alert (dry run) ---")
	fmt.Println(message)
	return nil
}
