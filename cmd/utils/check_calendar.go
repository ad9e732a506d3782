package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	calendarSvc "barberbook-service/internal/interface/calendar"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/timeutil"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// Small operator tool: verifies the service-account credentials can read a
// calendar and prints the busy intervals for one day.
//
//	GOOGLE_CREDENTIALS_FILE=creds.json CALENDAR_ID=xyz@group.calendar.google.com go run ./cmd/utils
func main() {
	credentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	calendarID := os.Getenv("CALENDAR_ID")
	if credentialsFile == "" || calendarID == "" {
		log.Fatal("Set GOOGLE_CREDENTIALS_FILE and CALENDAR_ID")
	}

	loc := timeutil.Location(os.Getenv("TIMEZONE"))

	date := os.Getenv("DATE")
	if date == "" {
		date = timeutil.DateString(time.Now().In(loc))
	}
	if !timeutil.IsDateString(date) {
		log.Fatalf("Invalid DATE %q, want YYYY-MM-DD", date)
	}

	ctx := context.Background()

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		log.Fatalf("Failed to read credentials: %v", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		log.Fatalf("Invalid credentials file: %v", err)
	}

	svc, err := calendarSvc.NewCalendarService(ctx, jwtConfig.TokenSource(ctx), loc, logger.NewLogger())
	if err != nil {
		log.Fatalf("Failed to create Calendar service: %v", err)
	}

	busy, err := svc.ListBusy(ctx, calendarID, date)
	if err != nil {
		log.Fatalf("Failed to list busy intervals: %v", err)
	}

	fmt.Printf("Busy intervals on %s for %s:\n", date, calendarID)
	if len(busy) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, b := range busy {
		if b.AllDay {
			fmt.Println("  all day")
			continue
		}
		fmt.Printf("  %s - %s\n", b.Start.In(loc).Format("15:04"), b.End.In(loc).Format("15:04"))
	}
}
