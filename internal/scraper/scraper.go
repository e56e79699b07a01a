package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dfw-fab/fabsync/internal/event"
)

const (
	// UserAgent identifies the sync to the source.
	UserAgent = "fabsync/1.0 (+weekly, noncommercial)"
	// Timeout bounds a single page fetch.
	Timeout = 30 * time.Second
)

// Fragment is one normalized unit of raw listing data for a single
// candidate event, shared by every source shape.
type Fragment struct {
	// Heading is the listing title text (an h2 on the HTML sources).
	Heading string
	// Body is the surrounding free text the field extractors search.
	Body string
	// DetailURL is the absolute link to the authoritative listing, when
	// the source exposed one.
	DetailURL string
	// CategoryHint is the event-type label the query that found this
	// fragment was scoped to, or a label pulled from the fragment itself.
	CategoryHint string
	// Provenance ranks how structured the fragment was.
	Provenance event.Provenance
}

// Source yields the fragments of one listing endpoint. Implementations walk
// their own pagination with the configured inter-page delay; a transport
// failure mid-walk truncates that walk and returns the fragments collected
// so far rather than discarding them.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Fragment, error)
}

// Client is the shared HTML fetch layer: one http.Client with a timeout and
// a fixed delay between consecutive page fetches.
type Client struct {
	http  *http.Client
	delay time.Duration
}

// NewClient creates a fetch client with the given inter-page delay.
func NewClient(delay time.Duration) *Client {
	return &Client{
		http:  &http.Client{Timeout: Timeout},
		delay: delay,
	}
}

// Document fetches a URL and parses it into a goquery document.
func (c *Client) Document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

// Wait sleeps the inter-page delay, returning early if the context ends.
func (c *Client) Wait(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
