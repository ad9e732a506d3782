package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
)

// GormAppointmentRepository implements the AppointmentRepository interface
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GORM appointment repository
func NewGormAppointmentRepository(db *gorm.DB) repository.AppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// Appointments GORM model for database mapping. The composite unique index
// on (barber_name, date, slot) is the double-booking backstop.
type Appointments struct {
	ID              uint      `gorm:"primaryKey"`
	BarberName      string    `gorm:"column:barber_name;size:60;not null;uniqueIndex:idx_barber_date_slot"`
	Date            string    `gorm:"column:date;size:10;not null;uniqueIndex:idx_barber_date_slot"`
	Slot            string    `gorm:"column:slot;size:5;not null;uniqueIndex:idx_barber_date_slot"`
	Services        string    `gorm:"column:services;not null"`
	Price           float64   `gorm:"column:price;not null"`
	ClientName      string    `gorm:"column:client_name;not null"`
	UserID          string    `gorm:"column:user_id;index;not null"`
	CalendarEventID string    `gorm:"column:calendar_event_id"`
	FeedbackScore   *int      `gorm:"column:feedback_score"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name
func (Appointments) TableName() string {
	return "appointments"
}

func toAppointmentEntity(m *Appointments) *entity.Appointment {
	return &entity.Appointment{
		ID:              m.ID,
		BarberName:      m.BarberName,
		Date:            m.Date,
		Slot:            m.Slot,
		Services:        m.Services,
		Price:           m.Price,
		ClientName:      m.ClientName,
		UserID:          m.UserID,
		CalendarEventID: m.CalendarEventID,
		FeedbackScore:   m.FeedbackScore,
		CreatedAt:       m.CreatedAt,
	}
}

// Claim inserts the appointment, relying on the unique index for atomic
// claim-or-reject semantics
func (r *GormAppointmentRepository) Claim(ctx context.Context, appointment *entity.Appointment) error {
	model := Appointments{
		BarberName:      appointment.BarberName,
		Date:            appointment.Date,
		Slot:            appointment.Slot,
		Services:        appointment.Services,
		Price:           appointment.Price,
		ClientName:      appointment.ClientName,
		UserID:          appointment.UserID,
		CalendarEventID: appointment.CalendarEventID,
		FeedbackScore:   appointment.FeedbackScore,
		CreatedAt:       appointment.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return repository.ErrSlotTaken
		}
		return result.Error
	}

	appointment.ID = model.ID
	return nil
}

// FindByID finds an appointment; nil, nil when it no longer exists
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uint) (*entity.Appointment, error) {
	var model Appointments
	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return toAppointmentEntity(&model), nil
}

// Delete removes the appointment row
func (r *GormAppointmentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&Appointments{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListReservedSlots returns the slots already booked for (date, barber)
func (r *GormAppointmentRepository) ListReservedSlots(ctx context.Context, date, barberName string) ([]string, error) {
	var slots []string
	result := r.db.WithContext(ctx).
		Model(&Appointments{}).
		Where("date = ? AND barber_name = ?", date, barberName).
		Pluck("slot", &slots)
	if result.Error != nil {
		return nil, result.Error
	}
	return slots, nil
}

// FindUpcomingForUser returns the nearest appointment at or after nowKey
func (r *GormAppointmentRepository) FindUpcomingForUser(ctx context.Context, userID, nowKey string) (*entity.Appointment, error) {
	var model Appointments
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND (date || ' ' || slot) >= ?", userID, nowKey).
		Order("date ASC, slot ASC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return toAppointmentEntity(&model), nil
}

// ListForBarberBetween returns appointments for a barber name pattern within
// [fromDate, toDate], ordered chronologically
func (r *GormAppointmentRepository) ListForBarberBetween(ctx context.Context, barberName, fromDate, toDate string) ([]*entity.Appointment, error) {
	var models []Appointments
	result := r.db.WithContext(ctx).
		Where("barber_name ILIKE ?", "%"+barberName+"%").
		Where("date >= ? AND date <= ?", fromDate, toDate).
		Order("date ASC, slot ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	appointments := make([]*entity.Appointment, 0, len(models))
	for i := range models {
		appointments = append(appointments, toAppointmentEntity(&models[i]))
	}
	return appointments, nil
}

// SetFeedbackScore overwrites the feedback score; a missing appointment is a
// no-op, not an error
func (r *GormAppointmentRepository) SetFeedbackScore(ctx context.Context, id uint, score int) error {
	result := r.db.WithContext(ctx).
		Model(&Appointments{}).
		Where("id = ?", id).
		Update("feedback_score", score)
	return result.Error
}
