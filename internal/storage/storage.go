package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dfw-fab/fabsync/internal/event"
)

const feedFile = "events.json"

// Record is one synced event as it appears in the feed file.
type Record struct {
	EventID    string `json:"event_id"`
	CalendarID string `json:"calendar_id"`
	Title      string `json:"title"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at,omitempty"`
	URL        string `json:"url,omitempty"`
	Location   string `json:"location,omitempty"`
	UpdatedAt  string `json:"updated_at"`
}

// Feed is the persisted shape of one run's output.
type Feed struct {
	CalendarID string   `json:"calendar_id"`
	UpdatedAt  string   `json:"updated_at"`
	Events     []Record `json:"events"`
}

// Storage handles persistence of the event feed
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// FeedPath returns the path of the feed file.
func (s *Storage) FeedPath() string {
	return filepath.Join(s.dataDir, feedFile)
}

// SaveFeed writes the run's included events as the feed file, replacing any
// previous feed.
func (s *Storage) SaveFeed(calendarID string, events []*event.Candidate) error {
	now := time.Now().UTC().Format(time.RFC3339)
	feed := Feed{
		CalendarID: calendarID,
		UpdatedAt:  now,
		Events:     make([]Record, 0, len(events)),
	}
	for _, c := range events {
		feed.Events = append(feed.Events, record(calendarID, c, now))
	}

	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding feed: %w", err)
	}
	if err := os.WriteFile(s.FeedPath(), data, 0644); err != nil {
		return fmt.Errorf("writing feed: %w", err)
	}
	return nil
}

// LoadFeed reads the most recently saved feed. A missing file yields an
// empty feed, not an error.
func (s *Storage) LoadFeed() (*Feed, error) {
	data, err := os.ReadFile(s.FeedPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Feed{}, nil
		}
		return nil, fmt.Errorf("reading feed: %w", err)
	}

	var feed Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	return &feed, nil
}

func record(calendarID string, c *event.Candidate, now string) Record {
	r := Record{
		EventID:    event.ID(calendarID, c),
		CalendarID: calendarID,
		Title:      c.Title,
		URL:        c.DetailURL,
		Location:   c.Location,
		UpdatedAt:  now,
	}
	if c.Start != nil {
		r.StartsAt = c.Start.Format(time.RFC3339)
	}
	if c.End != nil {
		r.EndsAt = c.End.Format(time.RFC3339)
	}
	return r
}

// Candidates reconstructs candidate events from feed records, for rendering
// exports without re-scraping. The reconstruction keeps the fields the feed
// persists; derived fields such as provenance are gone.
func (f *Feed) Candidates() []*event.Candidate {
	out := make([]*event.Candidate, 0, len(f.Events))
	for _, r := range f.Events {
		c := &event.Candidate{
			Title:     r.Title,
			Location:  r.Location,
			DetailURL: r.URL,
		}
		if t, err := time.Parse(time.RFC3339, r.StartsAt); err == nil {
			c.Start = &t
			if t.Hour() != 0 || t.Minute() != 0 {
				c.HasTime = true
			}
		}
		if t, err := time.Parse(time.RFC3339, r.EndsAt); err == nil {
			c.End = &t
		}
		out = append(out, c)
	}
	return out
}
