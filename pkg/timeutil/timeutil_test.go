package timeutil

import (
	"testing"
	"time"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	if loc.String() != DefaultTimezone {
		t.Fatalf("expected %s, got %s", DefaultTimezone, loc)
	}
	if got := Location("UTC").String(); got != "UTC" {
		t.Fatalf("expected UTC, got %s", got)
	}
}

func TestIsDateString(t *testing.T) {
	valid := []string{"2026-09-07", "1999-01-01"}
	invalid := []string{"", "07/09/2026", "2026-9-7", "2026-09-07 10:00", "tomorrow"}

	for _, s := range valid {
		if !IsDateString(s) {
			t.Fatalf("%q should be a valid date", s)
		}
	}
	for _, s := range invalid {
		if IsDateString(s) {
			t.Fatalf("%q should not be a valid date", s)
		}
	}
}

func TestSlotStart(t *testing.T) {
	loc := Location(DefaultTimezone)

	got, err := SlotStart("2026-09-07", "09:00", loc)
	if err != nil {
		t.Fatalf("SlotStart: %v", err)
	}
	want := time.Date(2026, 9, 7, 9, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := SlotStart("2026-09-07", "late", loc); err == nil {
		t.Fatal("expected an error for a bad slot")
	}
}

func TestSlotPassed(t *testing.T) {
	loc := Location(DefaultTimezone)
	now := time.Date(2026, 9, 7, 9, 15, 0, 0, loc)

	cases := []struct {
		slot string
		want bool
	}{
		{"08:00", true},
		{"09:00", true},
		{"09:15", true},
		{"09:30", false},
		{"10:00", false},
	}
	for _, c := range cases {
		if got := SlotPassed(c.slot, now); got != c.want {
			t.Fatalf("SlotPassed(%s) = %v, want %v", c.slot, got, c.want)
		}
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate("2026-09-07"); got != "07/09/2026" {
		t.Fatalf("got %s", got)
	}
	// Unparseable input passes through
	if got := DisplayDate("soon"); got != "soon" {
		t.Fatalf("got %s", got)
	}
}

func TestDateTimeKeyOrdersChronologically(t *testing.T) {
	early := DateTimeKey("2026-09-07", "09:00")
	later := DateTimeKey("2026-09-07", "10:00")
	nextDay := DateTimeKey("2026-09-08", "08:00")

	if !(early < later && later < nextDay) {
		t.Fatalf("keys do not sort chronologically: %q %q %q", early, later, nextDay)
	}
}
