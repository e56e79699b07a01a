// Package storage provides JSON-based persistence for the sync's output.
//
// Each run writes the events it included as a feed file (events.json) in
// the data directory. The feed is what downstream consumers read: the ICS
// exporter renders it, and external tooling can watch it without touching
// the calendar API.
package storage
