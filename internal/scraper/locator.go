package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dfw-fab/fabsync/internal/event"
	"github.com/dfw-fab/fabsync/internal/logger"
)

// targetCategories maps each canonical category to the search terms used to
// match the locator's filter menu labels. Queries run in categoryOrder so
// fragment first-seen order, and with it dedup and reconcile order, is the
// same every run.
var targetCategories = map[string][]string{
	"Pro Quest":         {"Pro Quest", "Pro Quest+"},
	"Skirmish":          {"Skirmish"},
	"Road to Nationals": {"Road to Nationals"},
	"Prerelease":        {"Prerelease", "Pre-Release", "Pre Release"},
}

var categoryOrder = []string{"Pro Quest", "Skirmish", "Road to Nationals", "Prerelease"}

var paginationClassPattern = regexp.MustCompile(`(?i)pagination|pages`)

// LocatorSource scrapes the paginated HTML event locator. It first fetches
// the landing page to discover the event-type filter menu, then walks every
// page of each matching filter query.
type LocatorSource struct {
	client   *Client
	baseURL  string
	location string
	radius   float64
	log      *logger.Logger
}

// NewLocatorSource creates a locator source searching around location within
// radius miles.
func NewLocatorSource(client *Client, baseURL, location string, radius float64, log *logger.Logger) *LocatorSource {
	return &LocatorSource{
		client:   client,
		baseURL:  baseURL,
		location: location,
		radius:   radius,
		log:      log,
	}
}

// Name implements Source.
func (s *LocatorSource) Name() string { return "event-locator" }

// Fetch walks every matching filter query. A transport failure on a page
// truncates that query's pagination; fragments already collected survive.
func (s *LocatorSource) Fetch(ctx context.Context) ([]Fragment, error) {
	menu, err := s.client.Document(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetching filter menu: %w", err)
	}
	filters := discoverTypeFilters(menu)
	if len(filters) == 0 {
		s.log.Warn("No event-type filters discovered on locator page", logger.Fields{"url": s.baseURL})
	}

	var fragments []Fragment
	for _, category := range categoryOrder {
		terms := targetCategories[category]
		for _, label := range sortedLabels(filters) {
			if !matchesAny(label, terms) {
				continue
			}
			frags := s.fetchFilter(ctx, category, label, filters[label])
			fragments = append(fragments, frags...)
		}
	}
	return fragments, nil
}

func sortedLabels(filters map[string]string) []string {
	labels := make([]string, 0, len(filters))
	for label := range filters {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// fetchFilter paginates one filter query.
func (s *LocatorSource) fetchFilter(ctx context.Context, category, label, value string) []Fragment {
	var fragments []Fragment
	totalPages := 1

	for page := 1; page <= totalPages; page++ {
		pageURL := s.queryURL(value, page)
		doc, err := s.client.Document(ctx, pageURL)
		if err != nil {
			// Truncate this query only; the run continues.
			s.log.Error("Page fetch failed, truncating query", logger.Fields{
				"filter": label,
				"page":   page,
			}, err)
			break
		}

		if page == 1 {
			totalPages = totalPageCount(doc)
		}

		frags := cardFragments(doc, category)
		if len(frags) == 0 {
			break
		}
		fragments = append(fragments, frags...)

		if page < totalPages {
			if err := s.client.Wait(ctx); err != nil {
				break
			}
		}
	}

	s.log.Info("Locator query complete", logger.Fields{
		"filter":    label,
		"fragments": len(fragments),
	})
	return fragments
}

// queryURL builds a locator page URL for a filter value and page number.
func (s *LocatorSource) queryURL(typeValue string, page int) string {
	params := url.Values{}
	params.Set("query", s.location)
	params.Set("distance", strconv.FormatFloat(s.radius, 'f', -1, 64))
	params.Set("type", typeValue)
	params.Set("page", strconv.Itoa(page))
	sep := "?"
	if strings.Contains(s.baseURL, "?") {
		sep = "&"
	}
	return s.baseURL + sep + params.Encode()
}

// discoverTypeFilters maps the filter menu's human labels to query values.
func discoverTypeFilters(doc *goquery.Document) map[string]string {
	filters := make(map[string]string)
	doc.Find("select[name=type] option, select#type option").Each(func(_ int, opt *goquery.Selection) {
		value := strings.TrimSpace(opt.AttrOr("value", ""))
		label := strings.TrimSpace(opt.Text())
		if value != "" && label != "" {
			filters[label] = value
		}
	})
	return filters
}

// totalPageCount reads the highest page number from the pagination block.
func totalPageCount(doc *goquery.Document) int {
	max := 1
	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		if !paginationClassPattern.MatchString(sel.AttrOr("class", "")) {
			return
		}
		sel.Find("a, span").Each(func(_ int, page *goquery.Selection) {
			if n, err := strconv.Atoi(strings.TrimSpace(page.Text())); err == nil && n > max {
				max = n
			}
		})
	})
	return max
}

// cardFragments extracts one fragment per listing card (h2 plus its parent
// container) on a locator page.
func cardFragments(doc *goquery.Document, category string) []Fragment {
	var fragments []Fragment
	doc.Find("h2").Each(func(_ int, h2 *goquery.Selection) {
		heading := strings.TrimSpace(h2.Text())
		if heading == "" || isSkipHeading(heading) {
			return
		}

		container := h2.Parent()
		body := containerText(container)

		href := ""
		if link := container.Find("a[href]").First(); link.Length() > 0 {
			href = link.AttrOr("href", "")
		}

		fragments = append(fragments, Fragment{
			Heading:      heading,
			Body:         body,
			DetailURL:    href,
			CategoryHint: category,
			Provenance:   event.ProvenanceCard,
		})
	})
	return fragments
}

// containerText prefers the card's p element, falling back to the whole
// container, and keeps line structure for the address extractor.
func containerText(container *goquery.Selection) string {
	var lines []string
	container.Find("p, li, address, span").Each(func(_ int, el *goquery.Selection) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		return strings.TrimSpace(container.Text())
	}
	return strings.Join(lines, "\n")
}

func isSkipHeading(heading string) bool {
	lower := strings.ToLower(heading)
	for _, skip := range skipHeadings {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}

func matchesAny(label string, terms []string) bool {
	lower := strings.ToLower(label)
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
