package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dfw-fab/fabsync/internal/event"
)

func testCandidates() []*event.Candidate {
	start := time.Date(2025, time.October, 4, 11, 0, 0, 0, time.UTC)
	rangeStart := time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	return []*event.Candidate{
		{
			Category:  "Skirmish",
			Title:     "Skirmish: Common Ground Games",
			Start:     &start,
			HasTime:   true,
			Location:  "1328 Inwood Rd, Dallas, TX 75247",
			DetailURL: "https://fabtcg.com/en/events/12345/",
		},
		{
			Category: "Battle Hardened",
			Title:    "Battle Hardened: New Jersey",
			Start:    &rangeStart,
			End:      &rangeEnd,
			Location: "Edison, NJ",
		},
	}
}

func TestSaveAndLoadFeed(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SaveFeed("cal-1", testCandidates()); err != nil {
		t.Fatalf("SaveFeed: %v", err)
	}

	feed, err := s.LoadFeed()
	if err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}
	if feed.CalendarID != "cal-1" {
		t.Errorf("calendar ID = %q", feed.CalendarID)
	}
	if len(feed.Events) != 2 {
		t.Fatalf("got %d records, want 2", len(feed.Events))
	}

	first := feed.Events[0]
	if first.Title != "Skirmish: Common Ground Games" {
		t.Errorf("title = %q", first.Title)
	}
	if first.EventID == "" {
		t.Error("record must carry the event identity")
	}
	if first.StartsAt != "2025-10-04T11:00:00Z" {
		t.Errorf("starts_at = %q", first.StartsAt)
	}
	if first.EndsAt != "" {
		t.Errorf("single-day event should have no ends_at, got %q", first.EndsAt)
	}

	second := feed.Events[1]
	if second.EndsAt != "2025-11-02T00:00:00Z" {
		t.Errorf("ends_at = %q", second.EndsAt)
	}
	if second.URL != "" {
		t.Errorf("url should be absent, got %q", second.URL)
	}
}

func TestSaveFeedReplacesPrevious(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SaveFeed("cal-1", testCandidates()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SaveFeed("cal-1", testCandidates()[:1]); err != nil {
		t.Fatalf("second save: %v", err)
	}

	feed, err := s.LoadFeed()
	if err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}
	if len(feed.Events) != 1 {
		t.Errorf("feed should be replaced, got %d records", len(feed.Events))
	}
}

func TestLoadFeedMissingFile(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	feed, err := s.LoadFeed()
	if err != nil {
		t.Fatalf("a missing feed is not an error: %v", err)
	}
	if len(feed.Events) != 0 {
		t.Errorf("missing feed should be empty, got %d records", len(feed.Events))
	}
}

func TestFeedCandidatesRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SaveFeed("cal-1", testCandidates()); err != nil {
		t.Fatalf("SaveFeed: %v", err)
	}
	feed, err := s.LoadFeed()
	if err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}

	cands := feed.Candidates()
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if !cands[0].HasTime {
		t.Error("a timestamp with a clock component should reconstruct as timed")
	}
	if cands[1].HasTime {
		t.Error("a midnight timestamp should reconstruct as date-only")
	}
	if cands[1].End == nil || cands[1].End.Day() != 2 {
		t.Errorf("end = %v", cands[1].End)
	}
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := New(dir); err != nil {
		t.Fatalf("New: %v", err)
	}
}
