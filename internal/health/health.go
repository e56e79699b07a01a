// Package health verifies the sync is ready to run: configuration,
// credentials, log directory, source reachability and calendar access.
// Failures are collected and reported as a single alert, so a scheduled
// check before sync day surfaces every problem at once.
package health

import (
	"context"
	"strings"

	"github.com/dfw-fab/fabsync/internal/logger"
	"github.com/dfw-fab/fabsync/internal/notifier"
)

// Check is one named readiness probe.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Result is the outcome of one check.
type Result struct {
	Name string
	Err  error
}

// Runner executes a set of checks and alerts on failures.
type Runner struct {
	Checks   []Check
	Log      *logger.Logger
	Notifier notifier.Notifier
}

// Run executes every check in order. All checks run even after a failure so
// the report is complete. When any check failed and a notifier is
// configured, one alert listing every failure is sent. The second return
// value is true when all checks passed.
func (r *Runner) Run(ctx context.Context) ([]Result, bool) {
	results := make([]Result, 0, len(r.Checks))
	var failed []string

	for _, check := range r.Checks {
		err := check.Run(ctx)
		results = append(results, Result{Name: check.Name, Err: err})
		if err != nil {
			r.Log.Error("Health check failed", logger.Fields{"check": check.Name}, err)
			failed = append(failed, check.Name+": "+err.Error())
			continue
		}
		r.Log.Info("Health check passed", logger.Fields{"check": check.Name})
	}

	if len(failed) > 0 && r.Notifier != nil {
		if err := r.Notifier.Notify(ctx, alertMessage(failed)); err != nil {
			r.Log.Error("Health alert delivery failed", nil, err)
		}
	}
	return results, len(failed) == 0
}

func alertMessage(failed []string) string {
	var b strings.Builder
	b.WriteString("FaB sync health check FAILED\n\nFailed checks:\n")
	for _, f := range failed {
		b.WriteString("- " + f + "\n")
	}
	return b.String()
}
