package router

import (
	"context"

	"barberbook-service/internal/domain/entity"
	"barberbook-service/pkg/logger"
)

// CommandHandler handles one privileged text command. Handle runs under the
// caller's per-user serialization, so it may mutate the session directly.
type CommandHandler interface {
	CanHandle(text string) bool
	Handle(ctx context.Context, userID, text string, session *entity.Session) error
}

// CommandRouter routes inbound texts to the admin command handlers
type CommandRouter struct {
	handlers []CommandHandler
	logger   logger.Logger
}

// NewCommandRouter creates a new command router
func NewCommandRouter(logger logger.Logger) *CommandRouter {
	return &CommandRouter{
		handlers: make([]CommandHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler for a command
func (r *CommandRouter) Register(handler CommandHandler) {
	r.handlers = append(r.handlers, handler)
}

// Dispatch routes text to the first matching handler; the bool reports
// whether any handler claimed the message
func (r *CommandRouter) Dispatch(ctx context.Context, userID, text string, session *entity.Session) (bool, error) {
	for _, handler := range r.handlers {
		if handler.CanHandle(text) {
			return true, handler.Handle(ctx, userID, text, session)
		}
	}
	return false, nil
}
