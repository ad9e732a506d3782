package repository

import (
	"context"

	"barberbook-service/internal/domain/entity"
)

// MessageLogRepository stores raw message traffic for auditing
type MessageLogRepository interface {
	Save(ctx context.Context, record *entity.MessageRecord) error
	ListForUser(ctx context.Context, userID string, limit int) ([]*entity.MessageRecord, error)
}
