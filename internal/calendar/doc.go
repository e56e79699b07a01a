// Package calendar reconciles candidate events against a Google Calendar.
//
// The Backend interface wraps the calendar API surface the reconciler
// needs; GoogleBackend implements it with a service-account credential.
// Reconciler.Upsert keys every entry on a stable iCalUID derived from the
// candidate's identity, so re-running a sync updates entries in place
// instead of duplicating them. The package also renders iCalendar exports
// of a run's events.
package calendar
