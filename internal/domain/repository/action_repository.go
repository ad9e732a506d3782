package repository

import (
	"context"
	"time"

	"barberbook-service/internal/domain/entity"
)

// ScheduledActionRepository owns the persisted deferred-action queue
type ScheduledActionRepository interface {
	// Schedule inserts the action; inserting a second action with the same
	// (AppointmentID, Kind) is a no-op
	Schedule(ctx context.Context, action *entity.ScheduledAction) error

	// FindDue returns every action whose fire time is at or before now
	FindDue(ctx context.Context, now time.Time) ([]*entity.ScheduledAction, error)

	// Delete acknowledges a dispatched action
	Delete(ctx context.Context, id uint) error

	// DeleteForAppointment removes all pending actions for an appointment
	DeleteForAppointment(ctx context.Context, appointmentID uint) error
}
