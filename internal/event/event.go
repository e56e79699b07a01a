package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Provenance ranks how structured the fragment a candidate was parsed from
// was. When the same real-world event is discovered twice, the candidate
// with the higher provenance wins.
type Provenance int

const (
	ProvenanceUnknown Provenance = iota
	// ProvenanceTextSearch marks candidates recovered by a loose regex
	// match over the whole page text.
	ProvenanceTextSearch
	// ProvenanceCard marks candidates parsed from a structured listing
	// card or API record.
	ProvenanceCard
)

// Distance is a parsed distance annotation such as "(34.2 mi)". A nil
// *Distance on a Candidate means the source gave no distance, which is
// distinct from a distance of zero.
type Distance struct {
	Value float64
	Unit  string // "mi" or "km"
}

// Miles normalizes the distance to miles regardless of source unit.
func (d *Distance) Miles() float64 {
	if d.Unit == "km" {
		return d.Value * 0.621371
	}
	return d.Value
}

// Candidate is the canonical intermediate event record. Optional fields are
// pointers; absence is represented as nil, never as a zero sentinel.
type Candidate struct {
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	StoreName   string     `json:"store_name,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	HasTime     bool       `json:"has_time,omitempty"` // clock time recovered, not just a date
	Location    string     `json:"location,omitempty"`
	Distance    *Distance  `json:"distance,omitempty"`
	DetailURL   string     `json:"detail_url,omitempty"`
	RawDateText string     `json:"date_text,omitempty"`
	TimeText    string     `json:"time_text,omitempty"`
	Format      string     `json:"format,omitempty"`
	Provenance  Provenance `json:"-"`
}

// ID returns a deterministic identifier for a candidate. It prefers the
// detail URL plus start timestamp, which survive re-parsing noise, and falls
// back to a digest of scope, category, normalized title, location, and raw
// date text when either is missing. Two fetches of the same real-world event
// produce the same ID as long as the stable fields are unchanged.
func ID(scope string, c *Candidate) string {
	var base string
	if c.DetailURL != "" && c.Start != nil {
		base = c.DetailURL + "|" + c.Start.UTC().Format(time.RFC3339)
	} else {
		base = scope + "|" + strings.ToLower(c.Category) + "|" + normalizeTitle(c.Title) + "|" + strings.ToLower(strings.TrimSpace(c.Location)) + "|" + strings.TrimSpace(c.RawDateText)
	}
	h := sha1.New()
	h.Write([]byte(base))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// normalizeTitle lowercases and collapses whitespace so that two listings of
// the same event differing only in casing or spacing share an identifier.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// Span returns the inclusive number of days the candidate covers, or 1 when
// no end is set.
func (c *Candidate) Span() int {
	if c.Start == nil || c.End == nil {
		return 1
	}
	days := int(c.End.Sub(*c.Start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
