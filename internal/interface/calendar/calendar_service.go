package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/timeutil"
)

// bookingMarker tags events created by this service so bulk cleanup only
// touches our own bookings
const bookingMarker = "Booked"

// CalendarService handles interaction with the Google Calendar API
type CalendarService struct {
	service *calendar.Service
	loc     *time.Location
	logger  logger.Logger
}

// NewCalendarService creates a new Calendar gateway
func NewCalendarService(ctx context.Context, tokenSource oauth2.TokenSource, loc *time.Location, logger logger.Logger) (*CalendarService, error) {
	service, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &CalendarService{
		service: service,
		loc:     loc,
		logger:  logger,
	}, nil
}

// NewDisabledCalendarService returns a gateway with no backing API: reads
// report no busy data, writes fail closed
func NewDisabledCalendarService(loc *time.Location, logger logger.Logger) *CalendarService {
	return &CalendarService{loc: loc, logger: logger}
}

func (s *CalendarService) dayBounds(date string) (string, string, error) {
	start, err := time.ParseInLocation(timeutil.DateLayout, date, s.loc)
	if err != nil {
		return "", "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	end := start.AddDate(0, 0, 1)
	return start.Format(time.RFC3339), end.Format(time.RFC3339), nil
}

// ListBusy returns the busy intervals on the calendar for a civil date
func (s *CalendarService) ListBusy(ctx context.Context, calendarID, date string) ([]entity.BusyInterval, error) {
	if s.service == nil || calendarID == "" {
		return nil, nil
	}

	timeMin, timeMax, err := s.dayBounds(date)
	if err != nil {
		return nil, err
	}

	resp, err := s.service.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	intervals := make([]entity.BusyInterval, 0, len(resp.Items))
	for _, event := range resp.Items {
		if event.Start == nil || event.Start.Date != "" {
			// All-day marker busies every slot
			intervals = append(intervals, entity.BusyInterval{AllDay: true})
			continue
		}

		start, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			s.logger.Warn("Skipping event with unparseable start", "eventId", event.Id, "error", err)
			continue
		}
		end, err := time.Parse(time.RFC3339, event.End.DateTime)
		if err != nil {
			s.logger.Warn("Skipping event with unparseable end", "eventId", event.Id, "error", err)
			continue
		}

		intervals = append(intervals, entity.BusyInterval{Start: start, End: end})
	}

	return intervals, nil
}

// CreateEvent creates a one-slot booking event and returns its id
func (s *CalendarService) CreateEvent(ctx context.Context, calendarID, date, slot, summary, description string) (string, error) {
	if s.service == nil || calendarID == "" {
		return "", repository.ErrCalendarUnavailable
	}

	start, err := timeutil.SlotStart(date, slot, s.loc)
	if err != nil {
		return "", err
	}
	end := start.Add(entity.SlotDuration)

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s: %s", bookingMarker, summary),
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: s.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: s.loc.String(),
		},
	}

	created, err := s.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		s.logger.Error("Failed to create calendar event", "calendarId", calendarID, "date", date, "slot", slot, "error", err)
		return "", fmt.Errorf("%w: %v", repository.ErrCalendarUnavailable, err)
	}

	return created.Id, nil
}

// DeleteEvent removes an event from the calendar
func (s *CalendarService) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if s.service == nil || calendarID == "" || eventID == "" {
		return nil
	}

	if err := s.service.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

// ClearBookingEvents deletes every booking-marker event on the date and
// returns how many were removed. Local ledger rows are untouched.
func (s *CalendarService) ClearBookingEvents(ctx context.Context, calendarID, date string) (int, error) {
	if s.service == nil || calendarID == "" {
		return 0, repository.ErrCalendarUnavailable
	}

	timeMin, timeMax, err := s.dayBounds(date)
	if err != nil {
		return 0, err
	}

	resp, err := s.service.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to list events: %w", err)
	}

	deleted := 0
	for _, event := range resp.Items {
		if !strings.Contains(event.Summary, bookingMarker) {
			continue
		}
		if err := s.service.Events.Delete(calendarID, event.Id).Context(ctx).Do(); err != nil {
			return deleted, fmt.Errorf("failed to delete event %s: %w", event.Id, err)
		}
		deleted++
	}

	return deleted, nil
}
