package usecase

import (
	"context"
	"strings"
	"time"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/timeutil"
	"barberbook-service/templates"
)

// AdminService implements the operator surface: weekly schedule reports,
// calendar cleanup and access-request routing
type AdminService struct {
	appointments repository.AppointmentRepository
	calendar     repository.CalendarRepository
	messenger    repository.MessengerRepository
	catalog      *entity.Catalog
	loc          *time.Location
	logger       logger.Logger
	now          func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(
	appointments repository.AppointmentRepository,
	calendar repository.CalendarRepository,
	messenger repository.MessengerRepository,
	catalog *entity.Catalog,
	loc *time.Location,
	logger logger.Logger,
) *AdminService {
	return &AdminService{
		appointments: appointments,
		calendar:     calendar,
		messenger:    messenger,
		catalog:      catalog,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

// WeeklySchedule renders the next seven days of bookings for a barber.
// It returns the empty string when the barber has no bookings in the window.
func (s *AdminService) WeeklySchedule(ctx context.Context, barberName string) (string, error) {
	today := timeutil.DateString(s.now().In(s.loc))
	until := timeutil.DateString(s.now().In(s.loc).AddDate(0, 0, 7))

	rows, err := s.appointments.ListForBarberBetween(ctx, barberName, today, until)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return templates.WeeklySchedule(barberName, today, until, rows), nil
}

// ClearCalendarDay removes every bot-created event from the barber's calendar
// on the given date and returns how many were removed
func (s *AdminService) ClearCalendarDay(ctx context.Context, barber entity.Barber, date string) (int, error) {
	count, err := s.calendar.ClearBookingEvents(ctx, barber.CalendarID, date)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Cleared booking events", "barber", barber.Name, "date", date, "count", count)
	return count, nil
}

// NotifyAccessRequest forwards an access request to every master admin.
// Delivery is best-effort per recipient.
func (s *AdminService) NotifyAccessRequest(ctx context.Context, contactName, userID string) {
	text := templates.AccessRequestNotification(contactName, userID)
	for _, adminID := range s.catalog.MasterAdmins {
		if err := s.messenger.SendText(ctx, adminID, text); err != nil {
			s.logger.Warn("Failed to notify master admin", "adminId", adminID, "error", err)
		}
	}
}

// ScheduleCommand handles the "!schedule" admin keyword. It only moves the
// session; the report itself is produced when the barber name arrives.
type ScheduleCommand struct {
	messenger repository.MessengerRepository
	catalog   *entity.Catalog
}

// NewScheduleCommand creates the schedule command handler
func NewScheduleCommand(messenger repository.MessengerRepository, catalog *entity.Catalog) *ScheduleCommand {
	return &ScheduleCommand{messenger: messenger, catalog: catalog}
}

func (c *ScheduleCommand) CanHandle(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "!schedule")
}

func (c *ScheduleCommand) Handle(ctx context.Context, userID, text string, session *entity.Session) error {
	if !c.catalog.IsAdmin(userID) {
		session.Step = entity.StepAwaitingAccessRequest
		return c.messenger.SendText(ctx, userID, templates.AccessDeniedWithRequest())
	}
	session.Step = entity.StepAwaitingAdminTarget
	return c.messenger.SendText(ctx, userID, templates.AdminAskBarber())
}

// ClearCalendarCommand handles "!clearcal <barber> <YYYY-MM-DD>"
type ClearCalendarCommand struct {
	admin     *AdminService
	messenger repository.MessengerRepository
	catalog   *entity.Catalog
	logger    logger.Logger
}

// NewClearCalendarCommand creates the calendar cleanup command handler
func NewClearCalendarCommand(admin *AdminService, messenger repository.MessengerRepository, catalog *entity.Catalog, logger logger.Logger) *ClearCalendarCommand {
	return &ClearCalendarCommand{admin: admin, messenger: messenger, catalog: catalog, logger: logger}
}

func (c *ClearCalendarCommand) CanHandle(text string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(text)), "!CLEARCAL")
}

func (c *ClearCalendarCommand) Handle(ctx context.Context, userID, text string, session *entity.Session) error {
	if !c.catalog.IsAdmin(userID) {
		return c.messenger.SendText(ctx, userID, templates.AccessDenied())
	}

	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) != 3 {
		return c.messenger.SendText(ctx, userID, templates.ClearUsage())
	}

	barber, ok := c.catalog.BarberByName(parts[1])
	if !ok {
		return c.messenger.SendText(ctx, userID, templates.ClearUnknownBarber(parts[1]))
	}
	date := parts[2]
	if !timeutil.IsDateString(date) {
		return c.messenger.SendText(ctx, userID, templates.ClearBadDate())
	}

	if err := c.messenger.SendText(ctx, userID, templates.ClearStarting(barber.Name, date)); err != nil {
		return err
	}

	count, err := c.admin.ClearCalendarDay(ctx, barber, date)
	if err != nil {
		c.logger.Error("Calendar cleanup failed", "barber", barber.Name, "date", date, "error", err)
		return c.messenger.SendText(ctx, userID, templates.ClearError())
	}
	return c.messenger.SendText(ctx, userID, templates.ClearDone(count, date))
}
