// Package timeutil holds the civil date/slot helpers used at the service
// boundary. All externally visible dates are YYYY-MM-DD strings and all
// slots are HH:MM strings in a single fixed time zone.
package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"

	// DefaultTimezone matches the shop's civil time zone
	DefaultTimezone = "America/Fortaleza"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Location resolves a time zone name, falling back to the default
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

// DateString formats t as a civil date in its own location
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// IsDateString reports whether s is a YYYY-MM-DD date
func IsDateString(s string) bool {
	return dateRe.MatchString(s)
}

// SlotStart resolves a (date, slot) pair to the wall-clock start instant
func SlotStart(date, slot string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+SlotLayout, date+" "+slot, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/slot %q %q: %w", date, slot, err)
	}
	return t, nil
}

// SlotPassed reports whether a slot's start is at or before now on now's day
func SlotPassed(slot string, now time.Time) bool {
	t, err := time.Parse(SlotLayout, slot)
	if err != nil {
		return false
	}
	if t.Hour() != now.Hour() {
		return t.Hour() < now.Hour()
	}
	return t.Minute() <= now.Minute()
}

// DisplayDate renders YYYY-MM-DD as DD/MM/YYYY for user-facing text
func DisplayDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// DisplayDay renders a day for the date menu, e.g. "Mon, 02 Jan"
func DisplayDay(t time.Time) string {
	return t.Format("Mon, 02 Jan")
}

// DateTimeKey builds the sortable "YYYY-MM-DD HH:MM" key the ledger orders by
func DateTimeKey(date, slot string) string {
	return date + " " + slot
}
