// Package scraper provides source adapters and field extraction for Flesh
// and Blood tournament listings on fabtcg.com.
//
// Three sources share one Fragment shape: the local event locator HTML page
// (paginated, with a discoverable event-type filter menu), the organised-play
// page (parsed both by loose text search and by structured element walk),
// and a JSON API variant of the locator. Downstream stages never see
// source-specific structure; the Extractor turns fragments into candidate
// events with a set of independent per-field extractors that record a
// warning instead of failing when a field cannot be recovered.
package scraper
