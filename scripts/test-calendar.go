package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dfw-fab/fabsync/internal/calendar"
	"github.com/dfw-fab/fabsync/internal/event"
)

func main() {
	// Create a sample multi-day major and a timed local event
	start := time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	timed := time.Date(2026, time.March, 21, 11, 0, 0, 0, time.UTC)
	events := []*event.Candidate{
		{
			Category:  "Calling",
			Title:     "Calling: Las Vegas",
			Start:     &start,
			End:       &end,
			Location:  "Las Vegas Convention Center",
			DetailURL: "https://fabtcg.com/en/organised-play/calling-las-vegas/",
		},
		{
			Category:    "Skirmish",
			Title:       "Skirmish: Common Ground Games",
			Start:       &timed,
			HasTime:     true,
			Location:    "1328 Inwood Rd, Dallas, TX 75247",
			RawDateText: "Sat 21st Mar",
			TimeText:    "11:00",
		},
	}

	icsContent := calendar.GenerateICS("test-calendar", events, 6)

	// Write to file (owner read/write only for security)
	filename := "test-fab-events.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
