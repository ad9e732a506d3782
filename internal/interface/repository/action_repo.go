package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
)

// GormScheduledActionRepository implements the ScheduledActionRepository interface
type GormScheduledActionRepository struct {
	db *gorm.DB
}

// NewGormScheduledActionRepository creates a new GORM scheduled action repository
func NewGormScheduledActionRepository(db *gorm.DB) repository.ScheduledActionRepository {
	return &GormScheduledActionRepository{db: db}
}

// ScheduledActions GORM model for database mapping. The unique index on
// (appointment_id, kind) keeps at most one pending action per pair.
type ScheduledActions struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        string    `gorm:"column:user_id;not null"`
	Kind          string    `gorm:"column:kind;size:20;not null;uniqueIndex:idx_appointment_kind"`
	FireAt        time.Time `gorm:"column:fire_at;index;not null"`
	AppointmentID uint      `gorm:"column:appointment_id;not null;uniqueIndex:idx_appointment_kind"`
	SlotKey       string    `gorm:"column:slot_key;size:16"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name
func (ScheduledActions) TableName() string {
	return "scheduled_actions"
}

// Schedule inserts the action; re-scheduling the same (appointment, kind) is
// a no-op via ON CONFLICT DO NOTHING
func (r *GormScheduledActionRepository) Schedule(ctx context.Context, action *entity.ScheduledAction) error {
	model := ScheduledActions{
		UserID:        action.UserID,
		Kind:          string(action.Kind),
		FireAt:        action.FireAt,
		AppointmentID: action.AppointmentID,
		SlotKey:       action.SlotKey,
		CreatedAt:     action.CreatedAt,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return result.Error
	}

	action.ID = model.ID
	return nil
}

// FindDue returns every action with fire_at at or before now
func (r *GormScheduledActionRepository) FindDue(ctx context.Context, now time.Time) ([]*entity.ScheduledAction, error) {
	var models []ScheduledActions
	result := r.db.WithContext(ctx).
		Where("fire_at <= ?", now).
		Order("fire_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	actions := make([]*entity.ScheduledAction, 0, len(models))
	for _, m := range models {
		actions = append(actions, &entity.ScheduledAction{
			ID:            m.ID,
			UserID:        m.UserID,
			Kind:          entity.ActionKind(m.Kind),
			FireAt:        m.FireAt,
			AppointmentID: m.AppointmentID,
			SlotKey:       m.SlotKey,
			CreatedAt:     m.CreatedAt,
		})
	}
	return actions, nil
}

// Delete acknowledges a dispatched action
func (r *GormScheduledActionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&ScheduledActions{}, id).Error
}

// DeleteForAppointment removes all pending actions for an appointment
func (r *GormScheduledActionRepository) DeleteForAppointment(ctx context.Context, appointmentID uint) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&ScheduledActions{}).Error
}
