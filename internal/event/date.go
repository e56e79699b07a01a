package event

import (
	"regexp"
	"strconv"
	"time"
)

// Listing date formats seen on the sources:
//
//	"Sat 4th Oct"           local listing, weekday + ordinal day + month
//	"Aug 8-10, 2025"        same-month range
//	"Oct 31 - Nov 2, 2025"  cross-month range
//	"Oct 31 - Nov 2"        range without year
var (
	listingDatePattern = regexp.MustCompile(`([A-Za-z]{3})\s+(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]{3,4})`)
	crossMonthPattern  = regexp.MustCompile(`([A-Za-z]{3})\s+(\d{1,2})\s*-\s*([A-Za-z]{3})\s+(\d{1,2})(?:,?\s*(\d{4}))?`)
	sameMonthPattern   = regexp.MustCompile(`([A-Za-z]{3})\s+(\d{1,2})\s*-\s*(\d{1,2})(?:,?\s*(\d{4}))?`)

	clockMinutePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*([AP]M)`)
	clockHourPattern   = regexp.MustCompile(`(\d{1,2})\s*([AP]M)`)
)

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Sept": time.September, "Oct": time.October, "Nov": time.November,
	"Dec": time.December,
}

// OrdinalSuffix returns the English ordinal suffix for a day of month.
// 11, 12 and 13 take "th" despite ending in 1, 2 and 3.
func OrdinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// ParseListingDate parses a local listing date such as "Sat 4th Oct" into a
// midnight timestamp in loc, along with the date text normalized to carry
// the correct ordinal suffix. The listing carries no year: the date takes
// the year of now, rolling to the next year when it would otherwise be in
// the past. Returns false when no date pattern is present.
func ParseListingDate(text string, now time.Time, loc *time.Location) (time.Time, string, bool) {
	m := listingDatePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, "", false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, "", false
	}
	month, ok := months[m[3]]
	if !ok {
		return time.Time{}, "", false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	d := time.Date(now.Year(), month, day, 0, 0, 0, 0, loc)
	if d.Before(today) {
		d = time.Date(now.Year()+1, month, day, 0, 0, 0, 0, loc)
	}
	raw := m[1] + " " + strconv.Itoa(day) + OrdinalSuffix(day) + " " + m[3]
	return d, raw, true
}

// ParseDateRange parses a multi-day range in same-month ("Aug 8-10, 2025")
// or cross-month ("Oct 31 - Nov 2, 2025") form, returning the matched range
// text alongside the endpoints. The year must trail the range itself; a
// range without one takes defaultYear. Surrounding text often carries other
// four-digit runs (street numbers, ZIP codes, a neighboring event's year)
// that must not leak into the parse. The returned end date is the last day
// of the event, so the span end-start is inclusive of both endpoints.
func ParseDateRange(text string, defaultYear int, loc *time.Location) (start, end time.Time, raw string, ok bool) {
	if m := crossMonthPattern.FindStringSubmatch(text); m != nil {
		startMonth, ok1 := months[m[1]]
		endMonth, ok2 := months[m[3]]
		if !ok1 || !ok2 {
			return time.Time{}, time.Time{}, "", false
		}
		startDay, _ := strconv.Atoi(m[2])
		endDay, _ := strconv.Atoi(m[4])
		year := rangeYear(m[5], defaultYear)
		start = time.Date(year, startMonth, startDay, 0, 0, 0, 0, loc)
		end = time.Date(year, endMonth, endDay, 0, 0, 0, 0, loc)
		return start, end, m[0], true
	}

	if m := sameMonthPattern.FindStringSubmatch(text); m != nil {
		month, okm := months[m[1]]
		if !okm {
			return time.Time{}, time.Time{}, "", false
		}
		startDay, _ := strconv.Atoi(m[2])
		endDay, _ := strconv.Atoi(m[3])
		year := rangeYear(m[4], defaultYear)
		start = time.Date(year, month, startDay, 0, 0, 0, 0, loc)
		end = time.Date(year, month, endDay, 0, 0, 0, 0, loc)
		return start, end, m[0], true
	}

	return time.Time{}, time.Time{}, "", false
}

func rangeYear(captured string, defaultYear int) int {
	if captured == "" {
		return defaultYear
	}
	year, err := strconv.Atoi(captured)
	if err != nil {
		return defaultYear
	}
	return year
}

// ParseClockTime extracts a clock time such as "6:30 PM" or "6 PM" from
// surrounding text. Returns the 24-hour hour and minute.
func ParseClockTime(text string) (hour, minute int, ok bool) {
	if m := clockMinutePattern.FindStringSubmatch(text); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return to24Hour(hour, m[3]), minute, true
	}
	if m := clockHourPattern.FindStringSubmatch(text); m != nil {
		hour, _ = strconv.Atoi(m[1])
		return to24Hour(hour, m[2]), 0, true
	}
	return 0, 0, false
}

func to24Hour(hour int, meridiem string) int {
	if meridiem == "PM" && hour != 12 {
		return hour + 12
	}
	if meridiem == "AM" && hour == 12 {
		return 0
	}
	return hour
}
