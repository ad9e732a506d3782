package repository

import (
	"context"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/internal/domain/repository"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/metrics"
)

// LoggedMessenger decorates a messenger with traffic logging and metrics.
// Log failures never fail the send.
type LoggedMessenger struct {
	inner      repository.MessengerRepository
	messageLog repository.MessageLogRepository
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewLoggedMessenger creates a new logged messenger
func NewLoggedMessenger(inner repository.MessengerRepository, messageLog repository.MessageLogRepository, m *metrics.Metrics, logger logger.Logger) repository.MessengerRepository {
	return &LoggedMessenger{
		inner:      inner,
		messageLog: messageLog,
		metrics:    m,
		logger:     logger,
	}
}

// SendText sends through the inner messenger and records the outbound message
func (l *LoggedMessenger) SendText(ctx context.Context, userID, text string) error {
	if err := l.inner.SendText(ctx, userID, text); err != nil {
		l.metrics.ErrorsCount.WithLabelValues("send_text").Inc()
		return err
	}

	l.metrics.MessagesSent.Inc()

	if l.messageLog != nil {
		record := &entity.MessageRecord{
			Direction: entity.DirectionOutbound,
			UserID:    userID,
			Text:      text,
		}
		if err := l.messageLog.Save(ctx, record); err != nil {
			l.logger.Warn("Failed to log outbound message", "userId", userID, "error", err)
		}
	}

	return nil
}
