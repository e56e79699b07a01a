// Package cli implements the command-line interface for fabsync.
//
// The cli package provides the Cobra-based CLI: the default sync run plus
// maintenance subcommands for checking and cleaning the calendar, health
// probing, log replay, webhook testing and ICS export. It coordinates the
// scraper, filter, calendar, storage and notifier packages into the
// sequential sync pipeline.
package cli
