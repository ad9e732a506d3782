package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
	"barberbook-service/internal/infrastructure/router"
	"barberbook-service/pkg/logger"
	"barberbook-service/templates"
)

const dayOptionCount = 7

// sessionEntry pairs a session with its own lock so messages from the same
// user are handled strictly one at a time
type sessionEntry struct {
	mu    sync.Mutex
	state *entity.Session
}

// SessionStore holds the process-local conversation state per user
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]*sessionEntry)}
}

// acquire returns the user's entry with its lock held. The caller must
// unlock it when done.
func (s *SessionStore) acquire(userID string) *sessionEntry {
	s.mu.Lock()
	entry, ok := s.entries[userID]
	if !ok {
		entry = &sessionEntry{state: entity.NewSession()}
		s.entries[userID] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	return entry
}

// Engine drives the per-user conversation state machine
type Engine struct {
	sessions     *SessionStore
	availability *AvailabilityResolver
	booking      *BookingService
	admin        *AdminService
	catalog      *entity.Catalog
	messenger    repository.MessengerRepository
	router       *router.CommandRouter
	logger       logger.Logger
}

// NewEngine creates the conversation engine
func NewEngine(
	availability *AvailabilityResolver,
	booking *BookingService,
	admin *AdminService,
	catalog *entity.Catalog,
	messenger repository.MessengerRepository,
	cmdRouter *router.CommandRouter,
	logger logger.Logger,
) *Engine {
	return &Engine{
		sessions:     NewSessionStore(),
		availability: availability,
		booking:      booking,
		admin:        admin,
		catalog:      catalog,
		messenger:    messenger,
		router:       cmdRouter,
		logger:       logger,
	}
}

type stepHandler func(ctx context.Context, userID, text string, session *entity.Session) error

func (e *Engine) stepHandlers() map[entity.Step]stepHandler {
	return map[entity.Step]stepHandler{
		entity.StepIdle:                   e.handleIdle,
		entity.StepChoosingBarber:         e.handleChoosingBarber,
		entity.StepChoosingServices:       e.handleChoosingServices,
		entity.StepChoosingDate:           e.handleChoosingDate,
		entity.StepChoosingSlot:           e.handleChoosingSlot,
		entity.StepConfirmingName:         e.handleConfirmingName,
		entity.StepConfirmingCancellation: e.handleConfirmingCancellation,
		entity.StepAwaitingFeedbackScore:  e.handleFeedbackScore,
		entity.StepAwaitingAdminTarget:    e.handleAdminTarget,
		entity.StepAwaitingAccessRequest:  e.handleAccessRequest,
	}
}

// HandleMessage processes one inbound message for one user. Messages from
// the same user are serialized; different users proceed concurrently.
func (e *Engine) HandleMessage(ctx context.Context, userID, contactName, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	entry := e.sessions.acquire(userID)
	defer entry.mu.Unlock()

	session := entry.state
	if contactName != "" {
		session.ContactName = contactName
	}

	if handled, err := e.router.Dispatch(ctx, userID, trimmed, session); handled {
		return err
	}

	upper := strings.ToUpper(trimmed)
	switch {
	case upper == "CANCEL BOOKING":
		return e.startCancellation(ctx, userID, session)
	case upper == "CANCEL" && session.Step != entity.StepIdle:
		e.reset(session)
		return e.messenger.SendText(ctx, userID, templates.FlowCancelled())
	}

	handler, ok := e.stepHandlers()[session.Step]
	if !ok {
		e.logger.Warn("Session in unknown step, resetting", "userId", userID, "step", session.Step)
		e.reset(session)
		handler = e.handleIdle
	}
	return handler(ctx, userID, trimmed, session)
}

// BeginFeedback switches a user's session to score collection. It is called
// by the action dispatcher right after a feedback request is delivered and
// discards any in-progress flow.
func (e *Engine) BeginFeedback(userID string, appointmentID uint) {
	entry := e.sessions.acquire(userID)
	defer entry.mu.Unlock()

	fresh := entity.NewSession()
	fresh.Step = entity.StepAwaitingFeedbackScore
	fresh.FeedbackAppointmentID = appointmentID
	fresh.ContactName = entry.state.ContactName
	fresh.SentIdleHint = entry.state.SentIdleHint
	entry.state = fresh
}

// reset returns the session to idle, keeping only what outlives a flow
func (e *Engine) reset(session *entity.Session) {
	*session = entity.Session{
		Step:         entity.StepIdle,
		ContactName:  session.ContactName,
		SentIdleHint: session.SentIdleHint,
	}
}

func (e *Engine) handleIdle(ctx context.Context, userID, text string, session *entity.Session) error {
	if strings.EqualFold(text, "book") {
		session.Step = entity.StepChoosingBarber
		return e.messenger.SendText(ctx, userID, templates.BarberMenu(e.catalog.Barbers))
	}
	if !session.SentIdleHint {
		session.SentIdleHint = true
		return e.messenger.SendText(ctx, userID, templates.IdleHint())
	}
	return nil
}

func (e *Engine) handleChoosingBarber(ctx context.Context, userID, text string, session *entity.Session) error {
	var barber entity.Barber
	var found bool
	if n, err := strconv.Atoi(text); err == nil {
		barber, found = e.catalog.BarberByIndex(n)
	} else {
		barber, found = e.catalog.BarberByName(text)
	}
	if !found {
		return e.messenger.SendText(ctx, userID, templates.InvalidBarberChoice())
	}

	session.Barber = &barber
	session.Step = entity.StepChoosingServices
	return e.messenger.SendText(ctx, userID, templates.ServiceMenu(e.catalog, session.Services))
}

func (e *Engine) handleChoosingServices(ctx context.Context, userID, text string, session *entity.Session) error {
	if strings.EqualFold(text, "continue") {
		if len(session.Services) == 0 {
			return e.messenger.SendText(ctx, userID, templates.NeedAnyService())
		}
		if !session.HasExclusive() {
			return e.messenger.SendText(ctx, userID, templates.NeedCutBeforeContinue())
		}
		return e.advanceToDateSelection(ctx, userID, session)
	}

	svc, ok := e.catalog.ServiceByCode(text)
	if !ok {
		return e.messenger.SendText(ctx, userID, templates.InvalidServiceChoice())
	}

	if svc.Exclusive {
		if session.HasExclusive() {
			return e.messenger.SendText(ctx, userID, templates.OnlyOneCut())
		}
		session.Services = append(session.Services, svc)
		confirmation := templates.ServiceAdded(svc.Name)
		if svc.ID == entity.BundleID {
			confirmation = templates.BundleSelected(svc.Name)
		}
		if err := e.messenger.SendText(ctx, userID, confirmation); err != nil {
			return err
		}
		return e.messenger.SendText(ctx, userID, templates.ServiceMenu(e.catalog, session.Services))
	}

	// Add-ons only make sense on top of a cut or bundle
	if !session.HasExclusive() {
		return e.messenger.SendText(ctx, userID, templates.NeedCutFirst())
	}
	if session.HasService(svc.ID) {
		return e.messenger.SendText(ctx, userID, templates.DuplicateAddOn(svc.Name))
	}
	session.Services = append(session.Services, svc)
	return e.messenger.SendText(ctx, userID, templates.ServiceAdded(svc.Name))
}

func (e *Engine) advanceToDateSelection(ctx context.Context, userID string, session *entity.Session) error {
	days, err := e.availability.NextAvailableDays(ctx, *session.Barber, dayOptionCount)
	if err != nil {
		e.logger.Error("Failed to resolve available days", "userId", userID, "error", err)
		return e.messenger.SendText(ctx, userID, templates.GenericError())
	}
	if len(days) == 0 {
		barberName := session.Barber.Name
		e.reset(session)
		return e.messenger.SendText(ctx, userID, templates.NoAvailability(barberName))
	}

	session.DayOptions = days
	session.Step = entity.StepChoosingDate
	return e.messenger.SendText(ctx, userID, templates.DateMenu(
		session.Barber.Name, session.ServiceNames(), session.TotalPrice(), days))
}

func (e *Engine) handleChoosingDate(ctx context.Context, userID, text string, session *entity.Session) error {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(session.DayOptions) {
		return e.messenger.SendText(ctx, userID, templates.InvalidDateChoice())
	}
	day := session.DayOptions[n-1]

	slots, err := e.availability.AvailableSlots(ctx, day.Value, *session.Barber)
	if err != nil {
		e.logger.Error("Failed to resolve available slots", "userId", userID, "date", day.Value, "error", err)
		return e.messenger.SendText(ctx, userID, templates.GenericError())
	}
	if len(slots) == 0 {
		// The day filled up between the menu being shown and the choice
		e.reset(session)
		return e.messenger.SendText(ctx, userID, templates.SlotsGone(day.Display))
	}

	session.ChosenDate = day.Value
	session.SlotOptions = slots
	session.Step = entity.StepChoosingSlot
	return e.messenger.SendText(ctx, userID, templates.SlotsMenu(slots))
}

func (e *Engine) handleChoosingSlot(ctx context.Context, userID, text string, session *entity.Session) error {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(session.SlotOptions) {
		return e.messenger.SendText(ctx, userID, templates.InvalidSlotChoice())
	}

	session.ChosenSlot = session.SlotOptions[n-1]
	session.Step = entity.StepConfirmingName
	return e.messenger.SendText(ctx, userID, templates.AskName(
		session.Barber.Name, session.ChosenDate, session.ChosenSlot,
		session.ServiceNames(), session.TotalPrice()))
}

func (e *Engine) handleConfirmingName(ctx context.Context, userID, text string, session *entity.Session) error {
	if len([]rune(text)) < 3 {
		return e.messenger.SendText(ctx, userID, templates.NameTooShort())
	}

	barber := *session.Barber
	appointment, err := e.booking.Confirm(ctx, ConfirmInput{
		Barber:     barber,
		Date:       session.ChosenDate,
		Slot:       session.ChosenSlot,
		Services:   session.ServiceNames(),
		Price:      session.TotalPrice(),
		ClientName: text,
		UserID:     userID,
	})
	if err != nil {
		e.reset(session)
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return e.messenger.SendText(ctx, userID, templates.SlotTakenError())
		case errors.Is(err, repository.ErrCalendarUnavailable):
			return e.messenger.SendText(ctx, userID, templates.CalendarWriteError())
		default:
			e.logger.Error("Booking failed", "userId", userID, "error", err)
			return e.messenger.SendText(ctx, userID, templates.GenericError())
		}
	}

	e.reset(session)
	if err := e.messenger.SendText(ctx, userID, templates.BookingConfirmed(appointment)); err != nil {
		return err
	}
	if barber.AdminUserID != "" {
		if err := e.messenger.SendText(ctx, barber.AdminUserID, templates.AdminNewBooking(appointment)); err != nil {
			e.logger.Warn("Failed to notify barber of new booking", "barber", barber.Name, "error", err)
		}
	}
	return nil
}

func (e *Engine) startCancellation(ctx context.Context, userID string, session *entity.Session) error {
	appointment, err := e.booking.FindUpcoming(ctx, userID)
	if err != nil {
		e.logger.Error("Failed to look up upcoming booking", "userId", userID, "error", err)
		return e.messenger.SendText(ctx, userID, templates.GenericError())
	}
	if appointment == nil {
		return e.messenger.SendText(ctx, userID, templates.NoUpcomingBooking())
	}

	e.reset(session)
	session.PendingCancel = appointment
	session.Step = entity.StepConfirmingCancellation
	return e.messenger.SendText(ctx, userID, templates.ConfirmCancellation(appointment))
}

func (e *Engine) handleConfirmingCancellation(ctx context.Context, userID, text string, session *entity.Session) error {
	switch text {
	case "1":
		appointment := session.PendingCancel
		e.reset(session)
		ok, err := e.booking.Cancel(ctx, appointment)
		if err != nil || !ok {
			if err != nil {
				e.logger.Error("Cancellation failed", "appointmentId", appointment.ID, "error", err)
			}
			return e.messenger.SendText(ctx, userID, templates.CancellationFailed())
		}
		return e.messenger.SendText(ctx, userID, templates.CancellationDone())
	case "2":
		e.reset(session)
		return e.messenger.SendText(ctx, userID, templates.CancellationKept())
	default:
		return e.messenger.SendText(ctx, userID, templates.ConfirmCancellation(session.PendingCancel))
	}
}

func (e *Engine) handleFeedbackScore(ctx context.Context, userID, text string, session *entity.Session) error {
	score, err := strconv.Atoi(text)
	if err != nil || score < 0 || score > 10 {
		return e.messenger.SendText(ctx, userID, templates.FeedbackInvalid())
	}

	if err := e.booking.RecordFeedback(ctx, session.FeedbackAppointmentID, score); err != nil {
		e.logger.Error("Failed to record feedback", "appointmentId", session.FeedbackAppointmentID, "error", err)
		return e.messenger.SendText(ctx, userID, templates.GenericError())
	}

	e.reset(session)
	return e.messenger.SendText(ctx, userID, templates.FeedbackThanks())
}

func (e *Engine) handleAdminTarget(ctx context.Context, userID, text string, session *entity.Session) error {
	e.reset(session)

	report, err := e.admin.WeeklySchedule(ctx, text)
	if err != nil {
		e.logger.Error("Failed to build weekly schedule", "barber", text, "error", err)
		return e.messenger.SendText(ctx, userID, templates.GenericError())
	}
	if report == "" {
		return e.messenger.SendText(ctx, userID, templates.AdminNothingFound(text))
	}
	return e.messenger.SendText(ctx, userID, report)
}

func (e *Engine) handleAccessRequest(ctx context.Context, userID, text string, session *entity.Session) error {
	e.reset(session)
	if text != "1" {
		return e.messenger.SendText(ctx, userID, templates.AccessRequestCancelled())
	}
	e.admin.NotifyAccessRequest(ctx, session.ContactName, userID)
	return e.messenger.SendText(ctx, userID, templates.AccessRequestSent())
}
