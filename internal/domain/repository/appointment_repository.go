package repository

import (
	"context"

	"barberbook-service/internal/domain/entity"
)

// AppointmentRepository is the booking ledger
type AppointmentRepository interface {
	// Claim atomically inserts the appointment; returns ErrSlotTaken when
	// (barber, date, slot) is already held
	Claim(ctx context.Context, appointment *entity.Appointment) error

	// FindByID returns nil, nil when the appointment no longer exists
	FindByID(ctx context.Context, id uint) (*entity.Appointment, error)

	// Delete removes the appointment row; false when it was already gone
	Delete(ctx context.Context, id uint) (bool, error)

	// ListReservedSlots returns the slots already booked for (date, barber)
	ListReservedSlots(ctx context.Context, date, barberName string) ([]string, error)

	// FindUpcomingForUser returns the chronologically nearest appointment at
	// or after nowKey ("YYYY-MM-DD HH:MM") for the user, or nil
	FindUpcomingForUser(ctx context.Context, userID, nowKey string) (*entity.Appointment, error)

	// ListForBarberBetween returns appointments for a barber name pattern
	// within [fromDate, toDate], ordered by date then slot
	ListForBarberBetween(ctx context.Context, barberName, fromDate, toDate string) ([]*entity.Appointment, error)

	// SetFeedbackScore overwrites the feedback score; no-op when the
	// appointment no longer exists
	SetFeedbackScore(ctx context.Context, id uint, score int) error
}
