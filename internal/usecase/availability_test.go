package usecase

import (
	"context"
	"testing"
	"time"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/pkg/timeutil"
)

func newTestResolver(appointments *memAppointments, cal *fakeCalendar, catalog *entity.Catalog, now time.Time) *AvailabilityResolver {
	loc := timeutil.Location(catalog.TimezoneName)
	r := NewAvailabilityResolver(appointments, cal, catalog, loc, nopLogger{})
	r.now = func() time.Time { return now.In(loc) }
	return r
}

func mustSlotStart(t *testing.T, date, slot string, loc *time.Location) time.Time {
	t.Helper()
	start, err := timeutil.SlotStart(date, slot, loc)
	if err != nil {
		t.Fatalf("SlotStart(%s, %s): %v", date, slot, err)
	}
	return start
}

func TestAvailableSlotsMergesLedgerAndCalendar(t *testing.T) {
	catalog := testCatalog()
	catalog.Slots = []string{"08:00", "09:00"}
	loc := timeutil.Location(catalog.TimezoneName)

	appointments := newMemAppointments()
	if err := appointments.Claim(context.Background(), &entity.Appointment{
		BarberName: "Ricardo", Date: "2026-09-07", Slot: "09:00",
	}); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	cal := newFakeCalendar()
	busyStart := mustSlotStart(t, "2026-09-07", "09:00", loc)
	cal.busy["2026-09-07"] = []entity.BusyInterval{
		{Start: busyStart, End: busyStart.Add(30 * time.Minute)},
	}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)
	resolver := newTestResolver(appointments, cal, catalog, now)

	barber, _ := catalog.BarberByIndex(1)
	slots, err := resolver.AvailableSlots(context.Background(), "2026-09-07", barber)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 1 || slots[0] != "08:00" {
		t.Fatalf("expected [08:00], got %v", slots)
	}
}

func TestAvailableSlotsPartialOverlapBlocksWholeSlot(t *testing.T) {
	catalog := testCatalog()
	loc := timeutil.Location(catalog.TimezoneName)

	cal := newFakeCalendar()
	// 09:30-10:30 straddles both the 09:00 and the 10:00 slot
	start := mustSlotStart(t, "2026-09-07", "09:00", loc).Add(30 * time.Minute)
	cal.busy["2026-09-07"] = []entity.BusyInterval{{Start: start, End: start.Add(time.Hour)}}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)
	resolver := newTestResolver(newMemAppointments(), cal, catalog, now)

	barber, _ := catalog.BarberByIndex(1)
	slots, err := resolver.AvailableSlots(context.Background(), "2026-09-07", barber)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 1 || slots[0] != "08:00" {
		t.Fatalf("expected only 08:00 to survive, got %v", slots)
	}
}

func TestAvailableSlotsAllDayEventBlocksEverything(t *testing.T) {
	catalog := testCatalog()
	loc := timeutil.Location(catalog.TimezoneName)

	cal := newFakeCalendar()
	dayStart := time.Date(2026, 9, 7, 0, 0, 0, 0, loc)
	cal.busy["2026-09-07"] = []entity.BusyInterval{
		{Start: dayStart, End: dayStart.AddDate(0, 0, 1), AllDay: true},
	}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)
	resolver := newTestResolver(newMemAppointments(), cal, catalog, now)

	barber, _ := catalog.BarberByIndex(1)
	slots, err := resolver.AvailableSlots(context.Background(), "2026-09-07", barber)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestAvailableSlotsTodayHidesPastSlots(t *testing.T) {
	catalog := testCatalog()
	loc := timeutil.Location(catalog.TimezoneName)

	// 09:15 today: 08:00 and 09:00 are gone, 10:00 remains
	now := time.Date(2026, 9, 7, 9, 15, 0, 0, loc)
	resolver := newTestResolver(newMemAppointments(), newFakeCalendar(), catalog, now)

	barber, _ := catalog.BarberByIndex(1)
	slots, err := resolver.AvailableSlots(context.Background(), "2026-09-07", barber)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 1 || slots[0] != "10:00" {
		t.Fatalf("expected [10:00], got %v", slots)
	}
}

func TestAvailableSlotsFailsOpenOnCalendarError(t *testing.T) {
	catalog := testCatalog()
	loc := timeutil.Location(catalog.TimezoneName)

	cal := newFakeCalendar()
	cal.listErr = context.DeadlineExceeded

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, loc)
	resolver := newTestResolver(newMemAppointments(), cal, catalog, now)

	barber, _ := catalog.BarberByIndex(1)
	slots, err := resolver.AvailableSlots(context.Background(), "2026-09-07", barber)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != len(catalog.Slots) {
		t.Fatalf("expected all %d slots on calendar failure, got %v", len(catalog.Slots), slots)
	}
	for i, slot := range catalog.Slots {
		if slots[i] != slot {
			t.Fatalf("slot order changed: got %v, want %v", slots, catalog.Slots)
		}
	}
}

func TestNextAvailableDaysSkipsClosedWeekday(t *testing.T) {
	catalog := testCatalog()
	loc := timeutil.Location(catalog.TimezoneName)

	// 2026-09-05 is a Saturday; Sunday the 6th must be skipped
	now := time.Date(2026, 9, 5, 7, 0, 0, 0, loc)
	resolver := newTestResolver(newMemAppointments(), newFakeCalendar(), catalog, now)

	barber, _ := catalog.BarberByIndex(1)
	days, err := resolver.NextAvailableDays(context.Background(), barber, 3)
	if err != nil {
		t.Fatalf("NextAvailableDays: %v", err)
	}
	want := []string{"2026-09-05", "2026-09-07", "2026-09-08"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %v", len(want), days)
	}
	for i, day := range days {
		if day.Value != want[i] {
			t.Fatalf("day %d: got %s, want %s", i, day.Value, want[i])
		}
	}
}

func TestNextAvailableDaysSkipsFullyBookedDays(t *testing.T) {
	catalog := testCatalog()
	loc := timeutil.Location(catalog.TimezoneName)

	appointments := newMemAppointments()
	for _, slot := range catalog.Slots {
		if err := appointments.Claim(context.Background(), &entity.Appointment{
			BarberName: "Ricardo", Date: "2026-09-07", Slot: slot,
		}); err != nil {
			t.Fatalf("Claim: %v", err)
		}
	}

	now := time.Date(2026, 9, 7, 7, 0, 0, 0, loc)
	resolver := newTestResolver(appointments, newFakeCalendar(), catalog, now)

	barber, _ := catalog.BarberByIndex(1)
	days, err := resolver.NextAvailableDays(context.Background(), barber, 2)
	if err != nil {
		t.Fatalf("NextAvailableDays: %v", err)
	}
	for _, day := range days {
		if day.Value == "2026-09-07" {
			t.Fatalf("fully booked day offered: %v", days)
		}
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %v", days)
	}
}

func TestNextAvailableDaysBoundsTheScan(t *testing.T) {
	catalog := testCatalog()
	catalog.ClosedWeekday = -1 // never closed, so only bookings can hide days
	loc := timeutil.Location(catalog.TimezoneName)

	appointments := newMemAppointments()
	now := time.Date(2026, 9, 1, 7, 0, 0, 0, loc)
	for i := 0; i < maxDayScan; i++ {
		date := timeutil.DateString(now.AddDate(0, 0, i))
		for _, slot := range catalog.Slots {
			if err := appointments.Claim(context.Background(), &entity.Appointment{
				BarberName: "Ricardo", Date: date, Slot: slot,
			}); err != nil {
				t.Fatalf("Claim: %v", err)
			}
		}
	}

	resolver := newTestResolver(appointments, newFakeCalendar(), catalog, now)
	barber, _ := catalog.BarberByIndex(1)
	days, err := resolver.NextAvailableDays(context.Background(), barber, 7)
	if err != nil {
		t.Fatalf("NextAvailableDays: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected no days inside the scan window, got %v", days)
	}
}
