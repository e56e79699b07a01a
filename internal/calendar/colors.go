package calendar

// Google Calendar color IDs per event category. Majors take the saturated
// tier colors; locals take softer ones so the two families read apart at a
// glance.
var categoryColors = map[string]string{
	"World Championship": "1",
	"Pro Tour":           "1",
	"World Premiere":     "2",
	"Calling":            "4",
	"Battle Hardened":    "5",
	"Pro Quest":          "8",
	"Pro Quest+":         "8",
	"Skirmish":           "9",
	"Road to Nationals":  "10",
	"Prerelease":         "11",
}

const defaultColorID = "10"

// ColorID returns the calendar color for a category.
func ColorID(category string) string {
	if id, ok := categoryColors[category]; ok {
		return id
	}
	return defaultColorID
}
