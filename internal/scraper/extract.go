package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dfw-fab/fabsync/internal/event"
	"github.com/dfw-fab/fabsync/internal/logger"
)

// Extractor turns fragments into candidate events. Each field extractor is
// independent: one field failing to parse leaves that field absent and never
// blocks the others.
type Extractor struct {
	Now        time.Time
	Loc        *time.Location
	TargetYear int
	BaseURL    string
	Log        *logger.Logger
}

// Extract parses a fragment into a candidate event. It never fails; fields
// that cannot be recovered stay absent and are logged at warning level.
func (e *Extractor) Extract(frag Fragment) *event.Candidate {
	c := &event.Candidate{
		Category:   strings.TrimSpace(frag.CategoryHint),
		Provenance: frag.Provenance,
	}

	heading := collapseSpaces(frag.Heading)

	if m := globalEventPattern.FindStringSubmatch(heading); m != nil {
		// Organised-play heading: "Calling: Seattle".
		c.Category = m[1]
		c.Title = m[1] + ": " + strings.TrimSpace(m[2])
		c.Location = strings.TrimSpace(m[2])
	} else {
		c.StoreName = extractStoreName(heading)
		if c.StoreName == unknownStore {
			e.warn("Store name fell back to sentinel", logger.Fields{"heading": heading})
		}
		if c.Category != "" {
			c.Title = c.Category + ": " + c.StoreName
		} else {
			c.Title = heading
		}
	}

	e.extractDates(frag.Body, c)
	e.extractClockTime(frag.Body, c)

	if addr := extractAddress(frag.Body); addr != "" {
		c.Location = addr
	}
	c.Distance = extractDistance(frag.Body)
	c.Format = extractFormat(frag.Body)
	c.DetailURL = e.absoluteURL(frag.DetailURL)

	if c.Start == nil {
		e.warn("No date recovered; event cannot be placed on the calendar", logger.Fields{"title": c.Title})
	}

	return c
}

const unknownStore = "Unknown Store"

// extractStoreName strips the distance annotation and the event-type label
// from a heading, leaving the store name. Pro Quest headings embed a city
// qualifier between label and store, which is stripped along with the label.
func extractStoreName(heading string) string {
	s := collapseSpaces(distancePattern.ReplaceAllString(heading, ""))

	if strings.Contains(strings.ToLower(s), "pro quest") {
		if m := proQuestStorePattern.FindStringSubmatch(s); m != nil {
			if store := collapseSpaces(m[2]); len(store) >= 3 {
				return store
			}
		}
	}

	for _, pattern := range labelPrefixPatterns {
		if pattern.MatchString(s) {
			s = collapseSpaces(pattern.ReplaceAllString(s, ""))
			break
		}
	}

	if len(s) < 3 {
		return unknownStore
	}
	return s
}

// extractDates fills Start/End/RawDateText from the body text. Ranges are
// tried first since a range also contains a bare month-day pair.
func (e *Extractor) extractDates(body string, c *event.Candidate) {
	if strings.Contains(body, "-") {
		if start, end, raw, ok := event.ParseDateRange(body, e.TargetYear, e.Loc); ok {
			c.Start = &start
			c.End = &end
			c.RawDateText = raw
			return
		}
	}
	if start, raw, ok := event.ParseListingDate(body, e.Now, e.Loc); ok {
		c.Start = &start
		c.RawDateText = raw
	}
}

// extractClockTime looks for a clock time independently of the date. When
// both a date and a time are present the start becomes a precise timestamp.
func (e *Extractor) extractClockTime(body string, c *event.Candidate) {
	hour, minute, ok := event.ParseClockTime(body)
	if !ok {
		return
	}
	c.TimeText = fmt.Sprintf("%d:%02d", hour, minute)
	if c.Start != nil {
		t := time.Date(c.Start.Year(), c.Start.Month(), c.Start.Day(), hour, minute, 0, 0, e.Loc)
		c.Start = &t
		c.HasTime = true
	}
}

// extractAddress returns the first body line carrying address tokens.
func extractAddress(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = collapseSpaces(line)
		if line == "" {
			continue
		}
		if zipAddressPattern.MatchString(line) || streetTokenPattern.MatchString(line) {
			return line
		}
	}
	return ""
}

// extractDistance parses a "(34.2 mi)" annotation. Absence yields nil, not
// zero, so the filter can tell unknown from adjacent.
func extractDistance(body string) *event.Distance {
	m := distancePattern.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &event.Distance{Value: value, Unit: m[2]}
}

// extractFormat returns the first advertised play format in the body.
func extractFormat(body string) string {
	for _, name := range formatNames {
		if strings.Contains(body, name) {
			return name
		}
	}
	return ""
}

// absoluteURL resolves a possibly-relative detail link against the source's
// base origin.
func (e *Extractor) absoluteURL(href string) string {
	return resolveURL(e.BaseURL, href)
}

func resolveURL(baseURL, href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (e *Extractor) warn(message string, fields logger.Fields) {
	if e.Log != nil {
		e.Log.Warn(message, fields)
	}
}
