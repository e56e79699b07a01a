package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dfw-fab/fabsync/internal/event"
	"github.com/dfw-fab/fabsync/internal/logger"
)

// surroundingWindow is how much page text around a matched heading is kept
// for the field extractors.
const surroundingWindow = 200

// OrganisedPlaySource scrapes the global organised-play page. Two strategies
// run over each page: a loose regex search across the whole page text, and a
// structured walk of heading-bearing elements. The structured walk produces
// richer fragments, which dedup prefers when both find the same event.
type OrganisedPlaySource struct {
	client *Client
	url    string
	log    *logger.Logger
}

// NewOrganisedPlaySource creates a source for the organised-play page.
func NewOrganisedPlaySource(client *Client, url string, log *logger.Logger) *OrganisedPlaySource {
	return &OrganisedPlaySource{client: client, url: url, log: log}
}

// Name implements Source.
func (s *OrganisedPlaySource) Name() string { return "organised-play" }

// Fetch walks the page and any rel=next continuation links.
func (s *OrganisedPlaySource) Fetch(ctx context.Context) ([]Fragment, error) {
	var fragments []Fragment
	pageURL := s.url

	for pageURL != "" {
		doc, err := s.client.Document(ctx, pageURL)
		if err != nil {
			if len(fragments) == 0 {
				return nil, fmt.Errorf("fetching organised play page: %w", err)
			}
			// Truncate pagination; keep what we have.
			s.log.Error("Page fetch failed, truncating pagination", logger.Fields{"url": pageURL}, err)
			break
		}

		fragments = append(fragments, s.textSearchFragments(doc)...)
		fragments = append(fragments, s.structureFragments(doc)...)

		pageURL = nextPageURL(doc, pageURL)
		if pageURL != "" {
			if err := s.client.Wait(ctx); err != nil {
				break
			}
		}
	}

	s.log.Info("Organised play fetch complete", logger.Fields{"fragments": len(fragments)})
	return fragments, nil
}

// textSearchFragments runs the loose regex strategy over the whole page
// text, keeping a window of surrounding text for date and URL recovery.
func (s *OrganisedPlaySource) textSearchFragments(doc *goquery.Document) []Fragment {
	var fragments []Fragment
	text := doc.Text()

	for _, m := range globalEventPattern.FindAllStringSubmatchIndex(text, -1) {
		heading := text[m[0]:m[1]]
		start := m[0] - surroundingWindow
		if start < 0 {
			start = 0
		}
		end := m[1] + surroundingWindow
		if end > len(text) {
			end = len(text)
		}

		sub := globalEventPattern.FindStringSubmatch(heading)
		fragments = append(fragments, Fragment{
			Heading:      heading,
			Body:         text[start:end],
			DetailURL:    findDetailLink(doc, sub[1], strings.TrimSpace(sub[2])),
			CategoryHint: sub[1],
			Provenance:   event.ProvenanceTextSearch,
		})
	}
	return fragments
}

// structureFragments walks heading-bearing elements that contain an event
// label, skipping elements that merely wrap links to avoid double counting.
// A container and the heading nested inside it both match; document order
// visits the container first, so keeping the first fragment per heading
// keeps the richer body.
func (s *OrganisedPlaySource) structureFragments(doc *goquery.Document) []Fragment {
	var fragments []Fragment
	seen := make(map[string]bool)
	doc.Find("div, p, h1, h2, h3, h4, h5, h6").Each(func(_ int, el *goquery.Selection) {
		if el.Find("a").Length() > 0 {
			return
		}
		text := strings.TrimSpace(el.Text())
		m := globalEventPattern.FindStringSubmatch(text)
		if m == nil {
			return
		}
		if seen[m[0]] {
			return
		}
		seen[m[0]] = true

		fragments = append(fragments, Fragment{
			Heading:      m[0],
			Body:         text,
			DetailURL:    findDetailLink(doc, m[1], strings.TrimSpace(m[2])),
			CategoryHint: m[1],
			Provenance:   event.ProvenanceCard,
		})
	})
	return fragments
}

// findDetailLink locates the listing URL for an event. It tries an exact
// link-text match first, then listing cards containing both the type and the
// location, then organised-play links sharing any location word. Matching is
// deliberately narrow so "Calling: Seattle" never borrows the Auckland link.
func findDetailLink(doc *goquery.Document, eventType, location string) string {
	exact := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		text := strings.TrimSpace(link.Text())
		if strings.Contains(text, eventType) && strings.Contains(text, location) {
			exact = link.AttrOr("href", "")
			return false
		}
		return true
	})
	if exact != "" {
		return exact
	}

	card := ""
	doc.Find("div.listblock-item").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		text := item.Text()
		if strings.Contains(text, eventType) && strings.Contains(text, location) {
			if link := item.Find("a[href]").First(); link.Length() > 0 {
				card = link.AttrOr("href", "")
				return false
			}
		}
		return true
	})
	if card != "" {
		return card
	}

	words := strings.Fields(location)
	loose := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		text := strings.TrimSpace(link.Text())
		href := link.AttrOr("href", "")
		if !strings.Contains(href, "/organised-play/") || !strings.Contains(text, eventType) {
			return true
		}
		for _, word := range words {
			if strings.Contains(text, word) {
				loose = href
				return false
			}
		}
		return true
	})
	return loose
}

// nextPageURL resolves a rel=next continuation link, or "" at end-of-pages.
func nextPageURL(doc *goquery.Document, current string) string {
	link := doc.Find(`a[rel=next]`).First()
	if link.Length() == 0 {
		return ""
	}
	href := link.AttrOr("href", "")
	if href == "" {
		return ""
	}
	resolved := resolveURL(current, href)
	if resolved == current {
		return ""
	}
	return resolved
}
