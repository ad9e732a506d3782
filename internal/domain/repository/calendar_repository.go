package repository

import (
	"context"

	"barberbook-service/internal/domain/entity"
)

// CalendarRepository is the external shared-calendar gateway. Reads return a
// typed error so callers can tell "confirmed empty" from "could not
// determine"; the availability policy currently fails open on read errors.
type CalendarRepository interface {
	// ListBusy returns the busy intervals on the calendar for a civil date
	ListBusy(ctx context.Context, calendarID, date string) ([]entity.BusyInterval, error)

	// CreateEvent creates a one-slot booking event and returns its id; any
	// error aborts the booking (fail-closed)
	CreateEvent(ctx context.Context, calendarID, date, slot, summary, description string) (string, error)

	// DeleteEvent removes an event; callers treat failures as best-effort
	DeleteEvent(ctx context.Context, calendarID, eventID string) error

	// ClearBookingEvents deletes every booking-marker event on the date and
	// returns how many were removed
	ClearBookingEvents(ctx context.Context, calendarID, date string) (int, error)
}
