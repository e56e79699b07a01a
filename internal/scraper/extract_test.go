package scraper

import (
	"io"
	"testing"
	"time"

	"github.com/dfw-fab/fabsync/internal/event"
	"github.com/dfw-fab/fabsync/internal/logger"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	log, err := logger.New(logger.LevelError, io.Discard, "")
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	return &Extractor{
		Now:        time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC),
		Loc:        time.UTC,
		TargetYear: 2025,
		BaseURL:    "https://fabtcg.com/en/events/",
		Log:        log,
	}
}

func TestExtractLocalCard(t *testing.T) {
	e := testExtractor(t)
	frag := Fragment{
		Heading:      "Skirmish Season 12 Common Ground Games (12.4 mi)",
		Body:         "Sat 4th Oct\n11:00 AM\nBlitz\n1328 Inwood Rd, Dallas, TX 75247\n(12.4 mi)",
		DetailURL:    "/en/events/12345/",
		CategoryHint: "Skirmish",
		Provenance:   event.ProvenanceCard,
	}

	c := e.Extract(frag)

	if c.StoreName != "Common Ground Games" {
		t.Errorf("store = %q", c.StoreName)
	}
	if c.Title != "Skirmish: Common Ground Games" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Start == nil {
		t.Fatal("start should be recovered")
	}
	want := time.Date(2025, time.October, 4, 11, 0, 0, 0, time.UTC)
	if !c.Start.Equal(want) {
		t.Errorf("start = %v, want %v", c.Start, want)
	}
	if !c.HasTime {
		t.Error("clock time was present, HasTime should be set")
	}
	if c.RawDateText != "Sat 4th Oct" {
		t.Errorf("raw date = %q", c.RawDateText)
	}
	if c.Location != "1328 Inwood Rd, Dallas, TX 75247" {
		t.Errorf("location = %q", c.Location)
	}
	if c.Distance == nil || c.Distance.Value != 12.4 || c.Distance.Unit != "mi" {
		t.Errorf("distance = %+v", c.Distance)
	}
	if c.Format != "Blitz" {
		t.Errorf("format = %q", c.Format)
	}
	if c.DetailURL != "https://fabtcg.com/en/events/12345/" {
		t.Errorf("detail URL = %q", c.DetailURL)
	}
}

func TestExtractProQuestStripsCity(t *testing.T) {
	e := testExtractor(t)

	tests := []struct {
		heading string
		want    string
	}{
		{"Pro Quest Yokohama Big Magic (5500 mi)", "Big Magic"},
		{"Pro Quest+ Austin Haven Games", "Haven Games"},
	}

	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			c := e.Extract(Fragment{
				Heading:      tt.heading,
				CategoryHint: "Pro Quest",
				Provenance:   event.ProvenanceCard,
			})
			if c.StoreName != tt.want {
				t.Errorf("store = %q, want %q", c.StoreName, tt.want)
			}
		})
	}
}

func TestExtractStoreNameFallback(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		want    string
	}{
		{"strips label", "Skirmish Season 12 Common Ground Games", "Common Ground Games"},
		{"strips distance", "Prerelease Madness Games (3 mi)", "Madness Games"},
		{"compound prerelease label", "Super Slam Pre-Release Madness Games", "Madness Games"},
		{"too short falls back", "Skirmish", "Unknown Store"},
		{"empty falls back", "", "Unknown Store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractStoreName(tt.heading); got != tt.want {
				t.Errorf("extractStoreName(%q) = %q, want %q", tt.heading, got, tt.want)
			}
		})
	}
}

func TestExtractGlobalHeading(t *testing.T) {
	e := testExtractor(t)
	frag := Fragment{
		Heading:      "Calling: Seattle",
		Body:         "The Calling returns. Aug 15-17, 2025 at the Seattle Convention Center",
		CategoryHint: "Calling",
		Provenance:   event.ProvenanceTextSearch,
	}

	c := e.Extract(frag)

	if c.Title != "Calling: Seattle" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Category != "Calling" {
		t.Errorf("category = %q", c.Category)
	}
	if c.Start == nil || c.End == nil {
		t.Fatal("range should be recovered")
	}
	if c.Start.Day() != 15 || c.End.Day() != 17 {
		t.Errorf("range = %v .. %v", c.Start, c.End)
	}
	if c.Span() != 3 {
		t.Errorf("span = %d, want 3", c.Span())
	}
	if c.Location != "Seattle" {
		t.Errorf("location should fall back to the heading subject, got %q", c.Location)
	}
}

func TestExtractCrossMonthRange(t *testing.T) {
	e := testExtractor(t)
	c := e.Extract(Fragment{
		Heading:      "Battle Hardened: New Jersey",
		Body:         "Oct 31 - Nov 2, 2025",
		CategoryHint: "Battle Hardened",
	})

	if c.Start == nil || c.End == nil {
		t.Fatal("range should be recovered")
	}
	if !c.Start.Equal(time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", c.Start)
	}
	if !c.End.Equal(time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", c.End)
	}
	if c.Span() != 3 {
		t.Errorf("span = %d, want 3", c.Span())
	}
}

func TestExtractRangeYearIgnoresAddressDigits(t *testing.T) {
	e := testExtractor(t)
	c := e.Extract(Fragment{
		Heading:      "Battle Hardened: Dallas",
		Body:         "Oct 31 - Nov 2\n1234 Main St, Dallas, TX 75201",
		CategoryHint: "Battle Hardened",
	})

	if c.Start == nil {
		t.Fatal("range should be recovered")
	}
	if got := c.Start.Year(); got != 2025 {
		t.Errorf("year = %d, want the target year 2025", got)
	}
	if !c.Start.Equal(time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", c.Start)
	}
}

func TestExtractMalformedFragment(t *testing.T) {
	e := testExtractor(t)
	c := e.Extract(Fragment{
		Heading:      "Skirmish",
		Body:         "nothing useful in here",
		CategoryHint: "Skirmish",
	})

	if c == nil {
		t.Fatal("extract must never fail")
	}
	if c.Start != nil {
		t.Error("no date should mean absent start, not a zero value")
	}
	if c.Distance != nil {
		t.Error("no distance annotation should mean nil distance")
	}
	if c.StoreName != "Unknown Store" {
		t.Errorf("store = %q", c.StoreName)
	}
	if c.Title != "Skirmish: Unknown Store" {
		t.Errorf("title = %q", c.Title)
	}
}

func TestExtractThenDedupCollapsesNearDuplicates(t *testing.T) {
	e := testExtractor(t)

	// The same listing found by both query strategies, differing only in
	// whitespace and casing. Identity must collapse them to one event.
	frags := []Fragment{
		{
			Heading:      "Skirmish Season 12  common ground GAMES",
			Body:         "Sat 4th Oct\n1328 Inwood Rd, Dallas, TX 75247",
			CategoryHint: "Skirmish",
			Provenance:   event.ProvenanceTextSearch,
		},
		{
			Heading:      "Skirmish Season 12 Common Ground Games",
			Body:         "Sat 4th Oct\n11:00 AM\n1328 Inwood Rd, Dallas, TX 75247",
			CategoryHint: "Skirmish",
			Provenance:   event.ProvenanceCard,
		},
	}

	dedup := event.NewDeduper("local")
	for _, frag := range frags {
		dedup.Add(e.Extract(frag))
	}

	got := dedup.Candidates()
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Provenance != event.ProvenanceCard {
		t.Error("richer card fragment should have replaced the text-search one")
	}
	if !got[0].HasTime {
		t.Error("surviving candidate should carry the clock time from the richer fragment")
	}
}

func TestExtractDistanceUnits(t *testing.T) {
	if d := extractDistance("Some store (55 km) away"); d == nil || d.Unit != "km" || d.Value != 55 {
		t.Errorf("km distance = %+v", d)
	}
	if d := extractDistance("no annotation"); d != nil {
		t.Errorf("expected nil distance, got %+v", d)
	}
}

func TestAbsoluteURL(t *testing.T) {
	e := testExtractor(t)
	tests := []struct {
		href string
		want string
	}{
		{"/en/events/99/", "https://fabtcg.com/en/events/99/"},
		{"https://elsewhere.example/e/1", "https://elsewhere.example/e/1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := e.absoluteURL(tt.href); got != tt.want {
			t.Errorf("absoluteURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
