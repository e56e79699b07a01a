package filter

import "strings"

// categoryPattern maps a canonical category label to the substrings that
// identify it in free text.
type categoryPattern struct {
	canonical string
	patterns  []string
}

// classificationTable is ordered most specific first; the first match wins.
// "Pro Quest+" must precede "Pro Quest" or the plus variant would never
// classify.
var classificationTable = []categoryPattern{
	{"Pro Quest+", []string{"pro quest+"}},
	{"World Championship", []string{"world championship"}},
	{"World Premiere", []string{"world premiere"}},
	{"Pro Tour", []string{"pro tour"}},
	{"Battle Hardened", []string{"battle hardened"}},
	{"Road to Nationals", []string{"road to nationals"}},
	{"Calling", []string{"calling"}},
	{"Pro Quest", []string{"pro quest"}},
	{"Skirmish", []string{"skirmish"}},
	{"Prerelease", []string{"prerelease", "pre-release", "pre release"}},
}

// Classify maps free-text to a canonical category. Returns false when no
// pattern matches; unknown categories are excluded from the calendar.
func Classify(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, entry := range classificationTable {
		for _, pattern := range entry.patterns {
			if strings.Contains(lower, pattern) {
				return entry.canonical, true
			}
		}
	}
	return "", false
}

// Categories returns every canonical category label in table order.
func Categories() []string {
	out := make([]string, 0, len(classificationTable))
	for _, entry := range classificationTable {
		out = append(out, entry.canonical)
	}
	return out
}
