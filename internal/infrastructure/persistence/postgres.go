package persistence

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"barberbook-service/internal/interface/repository"
)

// NewPostgres connects to PostgreSQL and runs the additive schema migration.
// TranslateError is required so duplicate-key violations surface as
// gorm.ErrDuplicatedKey for the slot-claim path.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		PrepareStmt:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// AutoMigrate only adds what is missing; pre-existing installs gain the
	// feedback_score column without data loss.
	if err := db.AutoMigrate(
		&repository.Appointments{},
		&repository.ScheduledActions{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
