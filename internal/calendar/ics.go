package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/dfw-fab/fabsync/internal/event"
)

// GenerateICS renders a run's events as a single iCalendar document. UIDs
// match the ones the reconciler uses, so importing the file elsewhere keys
// the same way the synced calendar does.
func GenerateICS(scope string, events []*event.Candidate, defaultHours int) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//FaB Sync//fabsync//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(time.Now().UTC())
	for _, c := range events {
		if c.Start == nil {
			continue
		}
		writeVEvent(&ics, scope, c, stamp, defaultHours)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeVEvent(ics *strings.Builder, scope string, c *event.Candidate, stamp string, defaultHours int) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%s%s\r\n", event.ID(scope, c), UIDSuffix)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", stamp)

	if c.HasTime {
		start := *c.Start
		end := start.Add(time.Duration(defaultHours) * time.Hour)
		fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(start))
		fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(end))
	} else {
		last := *c.Start
		if c.End != nil {
			last = *c.End
		}
		fmt.Fprintf(ics, "DTSTART;VALUE=DATE:%s\r\n", c.Start.Format("20060102"))
		fmt.Fprintf(ics, "DTEND;VALUE=DATE:%s\r\n", last.AddDate(0, 0, 1).Format("20060102"))
	}

	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(c.Title))
	if desc := describe(c); desc != "" {
		fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(desc))
	}
	if c.Location != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(c.Location))
	}
	if c.DetailURL != "" {
		fmt.Fprintf(ics, "URL:%s\r\n", c.DetailURL)
	}
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
