// Package event provides the canonical event record and identity scheme for
// Flesh and Blood tournament listings.
//
// The event package defines the Candidate type produced by extraction, the
// deterministic SHA1-based identifier used both for in-run deduplication and
// for matching existing calendar entries across runs, and the date parsing
// helpers for the listing formats the sources publish (single dates with
// ordinal day suffixes, same-month ranges, and cross-month ranges).
package event
