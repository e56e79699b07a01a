package event

import (
	"testing"
	"time"
)

func TestIDDeterministic(t *testing.T) {
	start := time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC)
	c := &Candidate{
		Category:  "Pro Quest",
		Title:     "Pro Quest: Common Ground Games",
		Start:     &start,
		DetailURL: "https://fabtcg.com/en/events/12345/",
	}

	first := ID("cal-1", c)
	second := ID("cal-1", c)
	if first != second {
		t.Errorf("ID not deterministic: %s != %s", first, second)
	}
	if len(first) != 40 {
		t.Errorf("expected 40 hex chars, got %d", len(first))
	}
}

func TestIDChangesWithStableFields(t *testing.T) {
	start := time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC)
	otherStart := start.AddDate(0, 0, 7)

	base := &Candidate{
		Category:  "Calling",
		Title:     "Calling: Seattle",
		Start:     &start,
		DetailURL: "https://fabtcg.com/en/organised-play/calling-seattle/",
	}
	otherURL := *base
	otherURL.DetailURL = "https://fabtcg.com/en/organised-play/calling-auckland/"
	otherTime := *base
	otherTime.Start = &otherStart

	baseID := ID("cal-1", base)
	if ID("cal-1", &otherURL) == baseID {
		t.Error("different detail URLs should produce different IDs")
	}
	if ID("cal-1", &otherTime) == baseID {
		t.Error("different start times should produce different IDs")
	}
}

func TestIDFallbackNormalizesTitle(t *testing.T) {
	a := &Candidate{
		Category:    "Skirmish",
		Title:       "Skirmish: Common Ground Games",
		Location:    "Dallas, TX 75201",
		RawDateText: "Sat 4th Oct",
	}
	b := &Candidate{
		Category:    "Skirmish",
		Title:       "  skirmish:   COMMON ground games ",
		Location:    "Dallas, TX 75201",
		RawDateText: "Sat 4th Oct",
	}

	if ID("cal-1", a) != ID("cal-1", b) {
		t.Error("titles differing only in whitespace and casing should share an ID")
	}
}

func TestIDScoped(t *testing.T) {
	c := &Candidate{
		Category:    "Skirmish",
		Title:       "Skirmish: Common Ground Games",
		RawDateText: "Sat 4th Oct",
	}
	if ID("cal-1", c) == ID("cal-2", c) {
		t.Error("fallback ID should differ across calendar scopes")
	}
}

func TestDedupPreservesOrder(t *testing.T) {
	events := []*Candidate{
		{Category: "Calling", Title: "Calling: Seattle", RawDateText: "Aug 8-10, 2025"},
		{Category: "Skirmish", Title: "Skirmish: Common Ground Games", RawDateText: "Sat 4th Oct"},
		{Category: "Calling", Title: "calling:  SEATTLE", RawDateText: "Aug 8-10, 2025"},
	}

	got := Dedup("cal-1", events)
	if len(got) != 2 {
		t.Fatalf("expected 2 events after dedup, got %d", len(got))
	}
	if got[0].Category != "Calling" || got[1].Category != "Skirmish" {
		t.Errorf("dedup changed first-seen order: %v, %v", got[0].Title, got[1].Title)
	}
}

func TestDedupIdempotent(t *testing.T) {
	events := []*Candidate{
		{Category: "Calling", Title: "Calling: Seattle", RawDateText: "Aug 8-10, 2025"},
		{Category: "Calling", Title: "Calling: Seattle", RawDateText: "Aug 8-10, 2025"},
		{Category: "Skirmish", Title: "Skirmish: Common Ground Games", RawDateText: "Sat 4th Oct"},
	}

	once := Dedup("cal-1", events)
	twice := Dedup("cal-1", once)
	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("entry %d changed on second dedup", i)
		}
	}
}

func TestDedupRicherProvenanceReplacesInPlace(t *testing.T) {
	loose := &Candidate{
		Category:    "Calling",
		Title:       "Calling: Seattle",
		RawDateText: "Aug 8-10, 2025",
		Provenance:  ProvenanceTextSearch,
	}
	other := &Candidate{
		Category:    "Battle Hardened",
		Title:       "Battle Hardened: Dallas",
		RawDateText: "Sep 6, 2025",
		Provenance:  ProvenanceTextSearch,
	}
	rich := &Candidate{
		Category:    "Calling",
		Title:       "Calling: Seattle",
		RawDateText: "Aug 8-10, 2025",
		Location:    "Seattle Convention Center",
		Provenance:  ProvenanceCard,
	}

	got := Dedup("cal-1", []*Candidate{loose, other, rich})
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0] != rich {
		t.Error("richer candidate should replace the earlier entry at its original position")
	}
	if got[1] != other {
		t.Error("unrelated entry should keep its position")
	}
}

func TestDeduperAccumulatesAcrossQueries(t *testing.T) {
	d := NewDeduper("cal-1")

	c := &Candidate{Category: "Skirmish", Title: "Skirmish: Common Ground Games", RawDateText: "Sat 4th Oct"}
	if !d.Add(c) {
		t.Error("first add should report new")
	}
	// Same event discovered through a second category query.
	dup := &Candidate{Category: "Skirmish", Title: "SKIRMISH: common ground games", RawDateText: "Sat 4th Oct"}
	if d.Add(dup) {
		t.Error("duplicate from a later query should collapse")
	}
	if len(d.Candidates()) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(d.Candidates()))
	}
}
