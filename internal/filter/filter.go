package filter

import (
	"regexp"
	"strings"

	"github.com/dfw-fab/fabsync/internal/event"
)

// usStatePattern matches a trailing ", TX"-style state abbreviation, which
// the country whitelist treats as USA.
var usStatePattern = regexp.MustCompile(`,\s*[A-Z]{2}\s*(?:,|\d|$)`)

var usTokens = map[string]bool{"usa": true, "united states": true, "us": true}

// Policy decides inclusion per canonical category.
type Policy struct {
	// MajorTypes are always included regardless of distance.
	MajorTypes []string

	// RadiusMiles caps distance per category. A category appearing in
	// neither MajorTypes nor RadiusMiles is excluded outright.
	RadiusMiles map[string]float64

	// CountryWhitelist restricts globally-scoped categories by address
	// tokens. A category with no entry is included by default.
	CountryWhitelist map[string][]string

	// IncludeUnknownDistance is the single switch governing candidates
	// whose source gave no distance: false excludes them from
	// distance-capped categories, true passes them through.
	IncludeUnknownDistance bool
}

// Include reports whether a classified candidate belongs on the calendar,
// with a short reason for the log when it does not.
func (p *Policy) Include(c *event.Candidate) (bool, string) {
	if c.Category == "" {
		return false, "unclassified event type"
	}

	if p.isMajor(c.Category) {
		if !p.passCountryWhitelist(c) {
			return false, "outside country whitelist"
		}
		return true, ""
	}

	radius, capped := p.RadiusMiles[c.Category]
	if !capped {
		return false, "category not on allow-list"
	}
	if c.Distance == nil {
		if p.IncludeUnknownDistance {
			return true, ""
		}
		return false, "distance unknown"
	}
	if c.Distance.Miles() > radius {
		return false, "beyond distance cap"
	}
	return true, ""
}

func (p *Policy) isMajor(category string) bool {
	for _, t := range p.MajorTypes {
		if t == category {
			return true
		}
	}
	return false
}

// passCountryWhitelist tests the whitelist tokens against the address text.
// Addresses with a US state abbreviation satisfy a USA whitelist entry even
// when the country name itself is absent.
func (p *Policy) passCountryWhitelist(c *event.Candidate) bool {
	tokens, ok := p.CountryWhitelist[c.Category]
	if !ok || len(tokens) == 0 {
		return true
	}
	addr := strings.ToLower(c.Location)
	wantsUS := false
	for _, token := range tokens {
		if usTokens[token] {
			wantsUS = true
		}
		if token != "" && strings.Contains(addr, token) {
			return true
		}
	}
	if wantsUS && usStatePattern.MatchString(c.Location) {
		return true
	}
	return false
}
