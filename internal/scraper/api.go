package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dfw-fab/fabsync/internal/event"
	"github.com/dfw-fab/fabsync/internal/logger"
	"github.com/go-resty/resty/v2"
)

// apiResponse is one page of the locator's JSON API shape.
type apiResponse struct {
	Results []apiEvent `json:"results"`
	Next    *string    `json:"next"`
	Filters struct {
		EventTypes []apiEventType `json:"event_types"`
	} `json:"filters"`
}

type apiEventType struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type apiEvent struct {
	Title        string   `json:"title"`
	TypeID       string   `json:"type"`
	DateText     string   `json:"date_text"`
	TimeText     string   `json:"time"`
	Address      string   `json:"address"`
	Distance     *float64 `json:"distance"`
	DistanceUnit string   `json:"distance_unit"`
	URL          string   `json:"url"`
}

// APISource reads the locator's JSON API, following the next link of each
// event-type query until it is null. It emits the same Fragment shape as the
// HTML sources so the extractor stays source-agnostic.
type APISource struct {
	rest     *resty.Client
	baseURL  string
	location string
	radius   float64
	delayer  *Client
	log      *logger.Logger
}

// NewAPISource creates a JSON API source searching around location within
// radius miles. The shared Client supplies the inter-page delay.
func NewAPISource(delayer *Client, baseURL, location string, radius float64, log *logger.Logger) *APISource {
	rest := resty.New().
		SetHeader("User-Agent", UserAgent).
		SetTimeout(Timeout)
	return &APISource{
		rest:     rest,
		baseURL:  baseURL,
		location: location,
		radius:   radius,
		delayer:  delayer,
		log:      log,
	}
}

// Name implements Source.
func (s *APISource) Name() string { return "event-api" }

// Fetch enumerates the API's event-type filters from the first page, then
// walks each matching filter's result pages.
func (s *APISource) Fetch(ctx context.Context) ([]Fragment, error) {
	first, err := s.page(ctx, s.baseURL, "")
	if err != nil {
		return nil, fmt.Errorf("fetching filter list: %w", err)
	}

	var fragments []Fragment
	for _, category := range categoryOrder {
		terms := targetCategories[category]
		for _, et := range first.Filters.EventTypes {
			if !matchesAny(et.Title, terms) {
				continue
			}
			frags := s.fetchType(ctx, category, et)
			fragments = append(fragments, frags...)
		}
	}
	return fragments, nil
}

// fetchType walks one event-type query to end-of-pages, truncating on
// transport failure.
func (s *APISource) fetchType(ctx context.Context, category string, et apiEventType) []Fragment {
	var fragments []Fragment
	pageURL := s.baseURL
	typeID := et.ID

	for pageURL != "" {
		resp, err := s.page(ctx, pageURL, typeID)
		if err != nil {
			s.log.Error("API page fetch failed, truncating query", logger.Fields{
				"filter": et.Title,
				"url":    pageURL,
			}, err)
			break
		}

		for _, rec := range resp.Results {
			fragments = append(fragments, recordFragment(rec, category))
		}

		if resp.Next == nil || *resp.Next == "" {
			break
		}
		pageURL = resolveURL(s.baseURL, *resp.Next)
		typeID = "" // the next URL already carries the query
		if err := s.delayer.Wait(ctx); err != nil {
			break
		}
	}

	s.log.Info("API query complete", logger.Fields{
		"filter":    et.Title,
		"fragments": len(fragments),
	})
	return fragments
}

// page fetches and decodes one API page.
func (s *APISource) page(ctx context.Context, pageURL, typeID string) (*apiResponse, error) {
	req := s.rest.R().
		SetContext(ctx).
		SetResult(&apiResponse{})
	if typeID != "" {
		req.SetQueryParams(map[string]string{
			"query":    s.location,
			"distance": strconv.FormatFloat(s.radius, 'f', -1, 64),
			"type":     typeID,
		})
	}

	resp, err := req.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching %s: unexpected status code %d", pageURL, resp.StatusCode())
	}

	out, ok := resp.Result().(*apiResponse)
	if !ok || out == nil {
		return nil, fmt.Errorf("decoding %s: unexpected response shape", pageURL)
	}
	return out, nil
}

// recordFragment flattens a structured API record into the shared Fragment
// shape: the extractor re-parses the body lines exactly as it would HTML
// card text.
func recordFragment(rec apiEvent, category string) Fragment {
	var lines []string
	if rec.DateText != "" {
		lines = append(lines, rec.DateText)
	}
	if rec.TimeText != "" {
		lines = append(lines, rec.TimeText)
	}
	if rec.Address != "" {
		lines = append(lines, rec.Address)
	}
	if rec.Distance != nil {
		unit := rec.DistanceUnit
		if unit == "" {
			unit = "mi"
		}
		lines = append(lines, fmt.Sprintf("(%g %s)", *rec.Distance, unit))
	}

	return Fragment{
		Heading:      rec.Title,
		Body:         strings.Join(lines, "\n"),
		DetailURL:    rec.URL,
		CategoryHint: category,
		Provenance:   event.ProvenanceCard,
	}
}
