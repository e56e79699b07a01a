package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Backend is the calendar API surface the reconciler and maintenance
// commands need. GoogleBackend implements it; tests substitute a fake.
type Backend interface {
	// FindByUID returns the entry carrying the given iCalUID, or nil
	// when none exists.
	FindByUID(ctx context.Context, uid string) (*gcal.Event, error)
	Insert(ctx context.Context, ev *gcal.Event) error
	Update(ctx context.Context, eventID string, ev *gcal.Event) error
	Delete(ctx context.Context, eventID string) error
	// List returns entries starting within [timeMin, timeMax).
	List(ctx context.Context, timeMin, timeMax time.Time) ([]*gcal.Event, error)
	// Probe verifies the calendar itself is reachable and readable.
	Probe(ctx context.Context) error
}

// GoogleBackend talks to one Google Calendar via a service account.
type GoogleBackend struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleBackend builds a calendar client from a service-account
// credential file with full calendar scope.
func NewGoogleBackend(ctx context.Context, calendarID, credentialsFile string) (*GoogleBackend, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return &GoogleBackend{svc: svc, calendarID: calendarID}, nil
}

// FindByUID implements Backend.
func (b *GoogleBackend) FindByUID(ctx context.Context, uid string) (*gcal.Event, error) {
	resp, err := b.svc.Events.List(b.calendarID).
		ICalUID(uid).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing events by iCalUID: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	return resp.Items[0], nil
}

// Insert implements Backend.
func (b *GoogleBackend) Insert(ctx context.Context, ev *gcal.Event) error {
	if _, err := b.svc.Events.Insert(b.calendarID, ev).Context(ctx).Do(); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Update implements Backend.
func (b *GoogleBackend) Update(ctx context.Context, eventID string, ev *gcal.Event) error {
	if _, err := b.svc.Events.Update(b.calendarID, eventID, ev).Context(ctx).Do(); err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	return nil
}

// Delete implements Backend. An already-gone entry is not an error.
func (b *GoogleBackend) Delete(ctx context.Context, eventID string) error {
	err := b.svc.Events.Delete(b.calendarID, eventID).Context(ctx).Do()
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// List implements Backend, walking every result page.
func (b *GoogleBackend) List(ctx context.Context, timeMin, timeMax time.Time) ([]*gcal.Event, error) {
	var events []*gcal.Event
	pageToken := ""
	for {
		call := b.svc.Events.List(b.calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing events: %w", err)
		}
		events = append(events, resp.Items...)
		if resp.NextPageToken == "" {
			return events, nil
		}
		pageToken = resp.NextPageToken
	}
}

// Probe implements Backend.
func (b *GoogleBackend) Probe(ctx context.Context) error {
	if _, err := b.svc.Calendars.Get(b.calendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("fetching calendar %s: %w", b.calendarID, err)
	}
	return nil
}

// IsNotFound reports whether err is a calendar API not-found response.
// Deleted entries answer 410 rather than 404.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 404 || apiErr.Code == 410
	}
	return false
}
