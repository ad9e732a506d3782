package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/metrics"
	"barberbook-service/pkg/timeutil"
)

// One registry-backed metrics instance for the whole test package
var testMetrics = metrics.NewMetrics("test")

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatal(msg string, keysAndValues ...interface{}) {}
func (l nopLogger) With(keysAndValues ...interface{}) logger.Logger {
	return l
}

// memAppointments is an in-memory ledger enforcing the slot uniqueness that
// the real implementation gets from its unique index
type memAppointments struct {
	mu       sync.Mutex
	nextID   uint
	rows     map[uint]*entity.Appointment
	claimErr error
}

func newMemAppointments() *memAppointments {
	return &memAppointments{rows: make(map[uint]*entity.Appointment)}
}

func (m *memAppointments) Claim(ctx context.Context, a *entity.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimErr != nil {
		return m.claimErr
	}
	for _, row := range m.rows {
		if row.BarberName == a.BarberName && row.Date == a.Date && row.Slot == a.Slot {
			return repository.ErrSlotTaken
		}
	}
	m.nextID++
	a.ID = m.nextID
	row := *a
	m.rows[a.ID] = &row
	return nil
}

func (m *memAppointments) FindByID(ctx context.Context, id uint) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (m *memAppointments) Delete(ctx context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memAppointments) ListReservedSlots(ctx context.Context, date, barberName string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var slots []string
	for _, row := range m.rows {
		if row.Date == date && row.BarberName == barberName {
			slots = append(slots, row.Slot)
		}
	}
	return slots, nil
}

func (m *memAppointments) FindUpcomingForUser(ctx context.Context, userID, nowKey string) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *entity.Appointment
	for _, row := range m.rows {
		if row.UserID != userID {
			continue
		}
		key := timeutil.DateTimeKey(row.Date, row.Slot)
		if key < nowKey {
			continue
		}
		if best == nil || key < timeutil.DateTimeKey(best.Date, best.Slot) {
			best = row
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memAppointments) ListForBarberBetween(ctx context.Context, barberName, fromDate, toDate string) ([]*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Appointment
	for _, row := range m.rows {
		if row.BarberName == barberName && row.Date >= fromDate && row.Date <= toDate {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return timeutil.DateTimeKey(out[i].Date, out[i].Slot) < timeutil.DateTimeKey(out[j].Date, out[j].Slot)
	})
	return out, nil
}

func (m *memAppointments) SetFeedbackScore(ctx context.Context, id uint, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok {
		s := score
		row.FeedbackScore = &s
	}
	return nil
}

// memActions is an in-memory deferred-action queue with the idempotent
// (appointment, kind) insert of the real implementation
type memActions struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*entity.ScheduledAction
}

func newMemActions() *memActions {
	return &memActions{rows: make(map[uint]*entity.ScheduledAction)}
}

func (m *memActions) Schedule(ctx context.Context, a *entity.ScheduledAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.AppointmentID == a.AppointmentID && row.Kind == a.Kind {
			return nil
		}
	}
	m.nextID++
	a.ID = m.nextID
	row := *a
	m.rows[a.ID] = &row
	return nil
}

func (m *memActions) FindDue(ctx context.Context, now time.Time) ([]*entity.ScheduledAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.ScheduledAction
	for _, row := range m.rows {
		if !row.FireAt.After(now) {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out, nil
}

func (m *memActions) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memActions) DeleteForAppointment(ctx context.Context, appointmentID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if row.AppointmentID == appointmentID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *memActions) byKind(kind entity.ActionKind) []*entity.ScheduledAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.ScheduledAction
	for _, row := range m.rows {
		if row.Kind == kind {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out
}

func (m *memActions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// fakeCalendar records writes and serves canned busy intervals
type fakeCalendar struct {
	mu        sync.Mutex
	busy      map[string][]entity.BusyInterval // keyed by date
	listErr   error
	createErr error
	nextEvent int
	created   []string
	deleted   []string
	cleared   int
	clearErr  error
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{busy: make(map[string][]entity.BusyInterval)}
}

func (f *fakeCalendar) ListBusy(ctx context.Context, calendarID, date string) ([]entity.BusyInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.busy[date], nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, calendarID, date, slot, summary, description string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextEvent++
	id := fmt.Sprintf("evt-%d", f.nextEvent)
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeCalendar) ClearBookingEvents(ctx context.Context, calendarID, date string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	return f.cleared, nil
}

type sentMessage struct {
	userID string
	text   string
}

// fakeMessenger captures outbound texts; sendErr can be set to fail sends
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	sendErr func(userID, text string) error
}

func (f *fakeMessenger) SendText(ctx context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		if err := f.sendErr(userID, text); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, sentMessage{userID: userID, text: text})
	return nil
}

func (f *fakeMessenger) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) lastTo(userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].userID == userID {
			return f.sent[i].text
		}
	}
	return ""
}

func (f *fakeMessenger) countTo(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if s.userID == userID {
			n++
		}
	}
	return n
}

type feedbackCall struct {
	userID        string
	appointmentID uint
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []feedbackCall
}

func (f *fakeNotifier) BeginFeedback(userID string, appointmentID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, feedbackCall{userID: userID, appointmentID: appointmentID})
}

// testCatalog returns a two-barber catalog with the default services
func testCatalog() *entity.Catalog {
	return &entity.Catalog{
		Barbers: []entity.Barber{
			{Name: "Ricardo", CalendarID: "cal-ricardo", AdminUserID: "admin-ricardo"},
			{Name: "Alexandre", CalendarID: "cal-alexandre"},
		},
		Services:      entity.DefaultServices(),
		Slots:         []string{"08:00", "09:00", "10:00"},
		TimezoneName:  timeutil.DefaultTimezone,
		ClosedWeekday: time.Sunday,
		MasterAdmins:  []string{"master-1"},
	}
}
