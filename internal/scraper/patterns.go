package scraper

import "regexp"

// Pattern tables for the field extractors. Kept together so the heuristics
// are testable as data rather than scattered through control flow.
var (
	// distancePattern matches a "(34.2 mi)" or "(55 km)" annotation.
	distancePattern = regexp.MustCompile(`\(([\d.]+)\s*(mi|km)\)`)

	// zipAddressPattern matches a US "City, ST 75201" address line.
	zipAddressPattern = regexp.MustCompile(`[A-Za-z\s,]+,\s*[A-Z]{2}\s*\d{5}`)

	// streetTokenPattern matches street/state/country tokens that mark an
	// address line.
	streetTokenPattern = regexp.MustCompile(`(?i)\b(Street|St\.|Road|Rd\.|Ave|Avenue|Blvd|Texas|TX|USA|United States|Canada|United Kingdom|UK|Australia|NZ)\b`)

	// globalEventPattern matches "Calling: Seattle"-style headings on the
	// organised-play page.
	globalEventPattern = regexp.MustCompile(`(Battle Hardened|Calling|World Championship|Pro Tour|World Premiere):\s*([^,\n]+)`)

	// proQuestStorePattern splits "Pro Quest {City} {Store}" headings. The
	// city qualifier is matched lazily as a single token; multi-word city
	// names lose their tail into the store name, which matches the
	// listings closely enough in practice.
	proQuestStorePattern = regexp.MustCompile(`(?i)^pro quest\+?\s+(\S+)\s+(.+)$`)

	// labelPrefixPatterns strip the event-type label from a heading,
	// leaving the store name. Ordered so compound labels are tried before
	// their generic tails.
	labelPrefixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^skirmish season \d+`),
		regexp.MustCompile(`(?i)^[a-z\s]+ pre-release`),
		regexp.MustCompile(`(?i)^pro quest\+?`),
		regexp.MustCompile(`(?i)^road to nationals`),
		regexp.MustCompile(`(?i)^prerelease`),
		regexp.MustCompile(`(?i)^pre-release`),
		regexp.MustCompile(`(?i)^skirmish`),
	}

	// skipHeadings marks h2 text that is site chrome, not an event.
	skipHeadings = []string{"no results found", "no events found", "no matches found"}
)

// formatNames are the play formats a listing card may advertise.
var formatNames = []string{
	"Classic Constructed",
	"Blitz",
	"Living Legend",
	"Commoner",
	"Booster Draft",
	"Sealed Deck",
	"Crack, Shuffle, Play!",
	"Ira - Learn to Play",
}
