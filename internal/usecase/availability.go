package usecase

import (
	"context"
	"time"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/timeutil"
)

// maxDayScan bounds the look-ahead when availability is sparse
const maxDayScan = 30

// AvailabilityResolver computes bookable slots by merging local
// reservations with the external calendar's busy intervals
type AvailabilityResolver struct {
	appointments repository.AppointmentRepository
	calendar     repository.CalendarRepository
	catalog      *entity.Catalog
	loc          *time.Location
	logger       logger.Logger
	now          func() time.Time
}

// NewAvailabilityResolver creates a new availability resolver
func NewAvailabilityResolver(
	appointments repository.AppointmentRepository,
	calendar repository.CalendarRepository,
	catalog *entity.Catalog,
	loc *time.Location,
	logger logger.Logger,
) *AvailabilityResolver {
	return &AvailabilityResolver{
		appointments: appointments,
		calendar:     calendar,
		catalog:      catalog,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

// AvailableSlots returns the bookable slots for (date, barber) in catalog
// order: the fixed slot list minus ledger reservations, minus calendar busy
// windows, minus already-past slots when date is today. A calendar read
// failure contributes no busy data; the claim-time unique constraint remains
// the correctness backstop.
func (r *AvailabilityResolver) AvailableSlots(ctx context.Context, date string, barber entity.Barber) ([]string, error) {
	reserved, err := r.appointments.ListReservedSlots(ctx, date, barber.Name)
	if err != nil {
		return nil, err
	}

	busy := make(map[string]bool, len(reserved))
	for _, slot := range reserved {
		busy[slot] = true
	}

	intervals, err := r.calendar.ListBusy(ctx, barber.CalendarID, date)
	if err != nil {
		r.logger.Warn("Calendar read failed, continuing without busy data",
			"barber", barber.Name, "date", date, "error", err)
		intervals = nil
	}

	if len(intervals) > 0 {
		for _, slot := range r.catalog.Slots {
			if busy[slot] {
				continue
			}
			slotStart, err := timeutil.SlotStart(date, slot, r.loc)
			if err != nil {
				continue
			}
			slotEnd := slotStart.Add(entity.SlotDuration)
			for _, interval := range intervals {
				if interval.Overlaps(slotStart, slotEnd) {
					busy[slot] = true
					break
				}
			}
		}
	}

	now := r.now().In(r.loc)
	isToday := timeutil.DateString(now) == date

	available := make([]string, 0, len(r.catalog.Slots))
	for _, slot := range r.catalog.Slots {
		if busy[slot] {
			continue
		}
		if isToday && timeutil.SlotPassed(slot, now) {
			continue
		}
		available = append(available, slot)
	}

	return available, nil
}

// NextAvailableDays returns the next count days with at least one bookable
// slot, skipping the weekly closure day, scanning at most maxDayScan days
func (r *AvailabilityResolver) NextAvailableDays(ctx context.Context, barber entity.Barber, count int) ([]entity.DayOption, error) {
	now := r.now().In(r.loc)

	days := make([]entity.DayOption, 0, count)
	for checked := 0; checked < maxDayScan && len(days) < count; checked++ {
		day := now.AddDate(0, 0, checked)
		if day.Weekday() == r.catalog.ClosedWeekday {
			continue
		}

		date := timeutil.DateString(day)
		slots, err := r.AvailableSlots(ctx, date, barber)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}

		days = append(days, entity.DayOption{
			Display: timeutil.DisplayDay(day),
			Value:   date,
		})
	}

	return days, nil
}
