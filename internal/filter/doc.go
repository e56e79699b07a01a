// Package filter classifies free-text event types into canonical categories
// and decides which candidates belong on the calendar.
//
// Classification matches against an ordered table of case-insensitive
// substring patterns, most specific first, so "Pro Quest+ Austin" resolves
// to "Pro Quest+" rather than the generic "Pro Quest". Inclusion applies a
// per-category distance cap, a per-category country whitelist for
// globally-scoped categories, and a major-event allow-list.
package filter
