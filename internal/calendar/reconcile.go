package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/dfw-fab/fabsync/internal/event"
	"github.com/dfw-fab/fabsync/internal/logger"
)

// UIDSuffix turns a candidate identity into an iCalUID. The suffix keeps
// fabsync's entries recognizable among entries from other producers.
const UIDSuffix = "@fabtcg"

const defaultSourceURL = "https://fabtcg.com/en/events/"

// Action is the outcome of an upsert.
type Action string

const (
	ActionInserted Action = "inserted"
	ActionUpdated  Action = "updated"
	ActionSkipped  Action = "skipped"
)

// Reconciler mirrors candidate events onto a calendar. Entries are keyed by
// iCalUID so repeated runs converge: an event seen before is updated in
// place, preserving the backend's own event ID.
type Reconciler struct {
	Backend Backend
	// Scope is the calendar identifier; it participates in candidate
	// identity so two calendars never share UIDs.
	Scope string
	// TZ and TZName place timed events; TZName goes on the wire.
	TZ     *time.Location
	TZName string
	// DefaultEventHours is the assumed duration of a timed event whose
	// listing gives only a start.
	DefaultEventHours int
	Log               *logger.Logger
}

// UID returns the iCalUID a candidate reconciles under.
func (r *Reconciler) UID(c *event.Candidate) string {
	return event.ID(r.Scope, c) + UIDSuffix
}

// Upsert mirrors one candidate onto the calendar. Candidates without a
// start date cannot be placed and are skipped with a warning. Lookup
// failures propagate; the caller decides whether the run continues.
func (r *Reconciler) Upsert(ctx context.Context, c *event.Candidate) (Action, error) {
	if c.Start == nil {
		r.Log.Warn("Skipping event with no start date", logger.Fields{
			"category": c.Category,
			"title":    c.Title,
		})
		return ActionSkipped, nil
	}

	uid := r.UID(c)
	existing, err := r.Backend.FindByUID(ctx, uid)
	if err != nil {
		return ActionSkipped, fmt.Errorf("looking up %s: %w", uid, err)
	}

	body := r.entry(c, uid)
	if existing != nil {
		if err := r.Backend.Update(ctx, existing.Id, body); err != nil {
			r.Log.Error("Calendar update failed", logger.Fields{"title": c.Title}, err)
			return ActionSkipped, err
		}
		r.Log.Info("Updated calendar entry", logger.Fields{"title": c.Title})
		return ActionUpdated, nil
	}

	if err := r.Backend.Insert(ctx, body); err != nil {
		r.Log.Error("Calendar insert failed", logger.Fields{"title": c.Title}, err)
		return ActionSkipped, err
	}
	r.Log.Info("Inserted calendar entry", logger.Fields{"title": c.Title})
	return ActionInserted, nil
}

// entry builds the calendar representation of a candidate. Candidates with
// a recovered clock time become timed entries lasting DefaultEventHours;
// date-only candidates become all-day entries spanning their full range,
// with the exclusive end date the calendar convention requires.
func (r *Reconciler) entry(c *event.Candidate, uid string) *gcal.Event {
	ev := &gcal.Event{
		Summary:     c.Title,
		Location:    c.Location,
		Description: describe(c),
		ColorId:     ColorID(c.Category),
		ICalUID:     uid,
		Source: &gcal.EventSource{
			Title: "FaB Events",
			Url:   sourceURL(c),
		},
	}

	start := c.Start.In(r.TZ)
	if c.HasTime {
		end := start.Add(time.Duration(r.DefaultEventHours) * time.Hour)
		ev.Start = &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: r.TZName}
		ev.End = &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: r.TZName}
		return ev
	}

	last := start
	if c.End != nil {
		last = c.End.In(r.TZ)
	}
	ev.Start = &gcal.EventDateTime{Date: start.Format("2006-01-02")}
	ev.End = &gcal.EventDateTime{Date: last.AddDate(0, 0, 1).Format("2006-01-02")}
	return ev
}

// describe assembles the entry description from whatever the listing gave.
func describe(c *event.Candidate) string {
	var lines []string
	if c.RawDateText != "" {
		lines = append(lines, "Date: "+c.RawDateText)
	}
	if c.TimeText != "" {
		lines = append(lines, "Time: "+c.TimeText)
	}
	if c.Format != "" {
		lines = append(lines, "Format: "+c.Format)
	}
	if c.Distance != nil {
		lines = append(lines, fmt.Sprintf("Distance: %g %s", c.Distance.Value, c.Distance.Unit))
	}
	if c.DetailURL != "" {
		lines = append(lines, "Official listing: "+c.DetailURL)
	}
	return strings.Join(lines, "\n")
}

func sourceURL(c *event.Candidate) string {
	if c.DetailURL != "" {
		return c.DetailURL
	}
	return defaultSourceURL
}

// Window lists the calendar entries starting within [from, to).
func (r *Reconciler) Window(ctx context.Context, from, to time.Time) ([]*gcal.Event, error) {
	return r.Backend.List(ctx, from, to)
}

// Clean deletes every entry starting within [from, to). Individual delete
// failures are logged and skipped; the count of deleted entries is
// returned.
func (r *Reconciler) Clean(ctx context.Context, from, to time.Time) (int, error) {
	entries, err := r.Backend.List(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("listing entries to clean: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if err := r.Backend.Delete(ctx, entry.Id); err != nil {
			r.Log.Error("Delete failed", logger.Fields{"summary": entry.Summary}, err)
			continue
		}
		deleted++
	}
	return deleted, nil
}
