package repository

import "errors"

var (
	// ErrSlotTaken is returned when a claim loses to a prior or concurrent
	// booking of the same (barber, date, slot)
	ErrSlotTaken = errors.New("slot already taken")

	// ErrNotFound is returned when a referenced row does not exist
	ErrNotFound = errors.New("not found")

	// ErrCalendarUnavailable is returned when the external calendar gateway
	// is unreachable or not configured for a write
	ErrCalendarUnavailable = errors.New("calendar unavailable")
)
