package usecase

import (
	"context"
	"time"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/metrics"
	"barberbook-service/templates"
)

// FeedbackNotifier is told when a feedback request has been delivered so the
// user's next message is interpreted as a score
type FeedbackNotifier interface {
	BeginFeedback(userID string, appointmentID uint)
}

// ActionDispatcher periodically drains due scheduled actions. An action is
// removed only after its side effect has happened; a failed send leaves the
// action pending for the next tick.
type ActionDispatcher struct {
	actions      repository.ScheduledActionRepository
	appointments repository.AppointmentRepository
	messenger    repository.MessengerRepository
	notifier     FeedbackNotifier
	metrics      *metrics.Metrics
	logger       logger.Logger
	interval     time.Duration
	now          func() time.Time
}

// NewActionDispatcher creates a new action dispatcher
func NewActionDispatcher(
	actions repository.ScheduledActionRepository,
	appointments repository.AppointmentRepository,
	messenger repository.MessengerRepository,
	notifier FeedbackNotifier,
	m *metrics.Metrics,
	logger logger.Logger,
	interval time.Duration,
) *ActionDispatcher {
	return &ActionDispatcher{
		actions:      actions,
		appointments: appointments,
		messenger:    messenger,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
		interval:     interval,
		now:          time.Now,
	}
}

// Start runs the dispatch loop until the context is cancelled
func (d *ActionDispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting action dispatcher", "interval", d.interval)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Action dispatcher stopped")
			return
		case <-ticker.C:
			d.DispatchDue(ctx)
		}
	}
}

// DispatchDue processes every action whose fire time has passed
func (d *ActionDispatcher) DispatchDue(ctx context.Context) {
	start := time.Now()
	defer func() {
		d.metrics.DispatchTime.Observe(time.Since(start).Seconds())
	}()

	due, err := d.actions.FindDue(ctx, d.now())
	if err != nil {
		d.logger.Error("Failed to load due actions", "error", err)
		d.metrics.ErrorsCount.WithLabelValues("actions_find_due").Inc()
		return
	}

	for _, action := range due {
		d.dispatch(ctx, action)
	}
}

func (d *ActionDispatcher) dispatch(ctx context.Context, action *entity.ScheduledAction) {
	appointment, err := d.appointments.FindByID(ctx, action.AppointmentID)
	if err != nil {
		d.logger.Error("Failed to load appointment for action", "actionId", action.ID, "error", err)
		return
	}
	if appointment == nil {
		// Booking is gone, the action is stale
		d.remove(ctx, action)
		return
	}

	switch action.Kind {
	case entity.ActionReminder:
		text := templates.Reminder(appointment)
		if err := d.messenger.SendText(ctx, action.UserID, text); err != nil {
			d.logger.Warn("Reminder send failed, will retry", "actionId", action.ID, "error", err)
			return
		}
		d.remove(ctx, action)
		d.metrics.ActionsDispatched.WithLabelValues(string(entity.ActionReminder)).Inc()

	case entity.ActionFeedbackRequest:
		if appointment.FeedbackScore != nil {
			// Already evaluated, nothing to ask
			d.remove(ctx, action)
			return
		}
		text := templates.FeedbackRequest(appointment)
		if err := d.messenger.SendText(ctx, action.UserID, text); err != nil {
			d.logger.Warn("Feedback request send failed, will retry", "actionId", action.ID, "error", err)
			return
		}
		d.notifier.BeginFeedback(action.UserID, appointment.ID)
		d.remove(ctx, action)
		d.metrics.ActionsDispatched.WithLabelValues(string(entity.ActionFeedbackRequest)).Inc()

	default:
		d.logger.Warn("Unknown action kind", "actionId", action.ID, "kind", action.Kind)
		d.remove(ctx, action)
	}
}

func (d *ActionDispatcher) remove(ctx context.Context, action *entity.ScheduledAction) {
	if err := d.actions.Delete(ctx, action.ID); err != nil {
		d.logger.Error("Failed to delete scheduled action", "actionId", action.ID, "error", err)
	}
}
