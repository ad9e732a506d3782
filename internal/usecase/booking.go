package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/metrics"
	"barberbook-service/pkg/timeutil"
)

// Reminder fires 30 minutes before the slot; the feedback request fires two
// hours after it (one service window plus one hour of buffer).
const (
	reminderLead  = 30 * time.Minute
	feedbackDelay = entity.SlotDuration + time.Hour
)

// BookingService owns the confirm/cancel/feedback operations over the ledger
type BookingService struct {
	appointments repository.AppointmentRepository
	actions      repository.ScheduledActionRepository
	calendar     repository.CalendarRepository
	catalog      *entity.Catalog
	loc          *time.Location
	metrics      *metrics.Metrics
	logger       logger.Logger
	now          func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	appointments repository.AppointmentRepository,
	actions repository.ScheduledActionRepository,
	calendar repository.CalendarRepository,
	catalog *entity.Catalog,
	loc *time.Location,
	m *metrics.Metrics,
	logger logger.Logger,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		actions:      actions,
		calendar:     calendar,
		catalog:      catalog,
		loc:          loc,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// ConfirmInput carries everything needed to turn a selection into a booking
type ConfirmInput struct {
	Barber     entity.Barber
	Date       string
	Slot       string
	Services   string
	Price      float64
	ClientName string
	UserID     string
}

// Confirm runs the fail-closed booking sequence: create the calendar event,
// claim the slot, and on a lost race roll the event back. On success the
// reminder and feedback actions are registered.
func (s *BookingService) Confirm(ctx context.Context, in ConfirmInput) (*entity.Appointment, error) {
	description := fmt.Sprintf("Services: %s\nTotal: $%.2f\nClient handle: %s", in.Services, in.Price, in.UserID)

	eventID, err := s.calendar.CreateEvent(ctx, in.Barber.CalendarID, in.Date, in.Slot, in.ClientName, description)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("calendar_create").Inc()
		if errors.Is(err, repository.ErrCalendarUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrCalendarUnavailable, err)
	}

	appointment := &entity.Appointment{
		BarberName:      in.Barber.Name,
		Date:            in.Date,
		Slot:            in.Slot,
		Services:        in.Services,
		Price:           in.Price,
		ClientName:      in.ClientName,
		UserID:          in.UserID,
		CalendarEventID: eventID,
		CreatedAt:       s.now().In(s.loc),
	}

	if err := s.appointments.Claim(ctx, appointment); err != nil {
		// The slot is not ours; the event must not dangle
		if delErr := s.calendar.DeleteEvent(ctx, in.Barber.CalendarID, eventID); delErr != nil {
			s.logger.Warn("Failed to roll back calendar event", "eventId", eventID, "error", delErr)
		}
		if errors.Is(err, repository.ErrSlotTaken) {
			s.metrics.BookingsRejected.Inc()
			return nil, err
		}
		s.metrics.ErrorsCount.WithLabelValues("claim").Inc()
		return nil, fmt.Errorf("claim slot: %w", err)
	}

	s.scheduleActions(ctx, appointment)
	s.metrics.BookingsConfirmed.Inc()
	s.logger.Info("Booking confirmed",
		"appointmentId", appointment.ID,
		"barber", appointment.BarberName,
		"date", appointment.Date,
		"slot", appointment.Slot)

	return appointment, nil
}

// scheduleActions registers the reminder and feedback-request actions.
// Failures are logged, not surfaced: the booking already exists.
func (s *BookingService) scheduleActions(ctx context.Context, a *entity.Appointment) {
	slotStart, err := timeutil.SlotStart(a.Date, a.Slot, s.loc)
	if err != nil {
		s.logger.Error("Cannot schedule actions for booking", "appointmentId", a.ID, "error", err)
		return
	}

	slotKey := timeutil.DateTimeKey(a.Date, a.Slot)
	for kind, fireAt := range map[entity.ActionKind]time.Time{
		entity.ActionReminder:        slotStart.Add(-reminderLead),
		entity.ActionFeedbackRequest: slotStart.Add(feedbackDelay),
	} {
		action := &entity.ScheduledAction{
			UserID:        a.UserID,
			Kind:          kind,
			FireAt:        fireAt,
			AppointmentID: a.ID,
			SlotKey:       slotKey,
			CreatedAt:     s.now().In(s.loc),
		}
		if err := s.actions.Schedule(ctx, action); err != nil {
			s.logger.Error("Failed to schedule action", "appointmentId", a.ID, "kind", kind, "error", err)
		}
	}
}

// FindUpcoming returns the user's chronologically nearest appointment at or
// after now, or nil
func (s *BookingService) FindUpcoming(ctx context.Context, userID string) (*entity.Appointment, error) {
	now := s.now().In(s.loc)
	nowKey := timeutil.DateTimeKey(timeutil.DateString(now), now.Format(timeutil.SlotLayout))
	return s.appointments.FindUpcomingForUser(ctx, userID, nowKey)
}

// Cancel deletes the appointment, its calendar event (best-effort) and both
// of its pending actions
func (s *BookingService) Cancel(ctx context.Context, a *entity.Appointment) (bool, error) {
	if a.CalendarEventID != "" {
		if barber, ok := s.catalog.BarberByName(a.BarberName); ok {
			if err := s.calendar.DeleteEvent(ctx, barber.CalendarID, a.CalendarEventID); err != nil {
				s.logger.Warn("Failed to delete calendar event on cancellation",
					"appointmentId", a.ID, "eventId", a.CalendarEventID, "error", err)
			}
		}
	}

	deleted, err := s.appointments.Delete(ctx, a.ID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if err := s.actions.DeleteForAppointment(ctx, a.ID); err != nil {
		s.logger.Error("Failed to delete scheduled actions", "appointmentId", a.ID, "error", err)
	}

	s.metrics.BookingsCancelled.Inc()
	s.logger.Info("Booking cancelled", "appointmentId", a.ID)
	return true, nil
}

// RecordFeedback stores the score; overwriting is allowed and a vanished
// appointment is a silent no-op
func (s *BookingService) RecordFeedback(ctx context.Context, appointmentID uint, score int) error {
	return s.appointments.SetFeedbackScore(ctx, appointmentID, score)
}
