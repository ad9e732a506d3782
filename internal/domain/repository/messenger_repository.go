package repository

import "context"

// MessengerRepository sends outbound text to a user handle. Implementations
// pause briefly after each send to respect outbound rate limits.
type MessengerRepository interface {
	SendText(ctx context.Context, userID, text string) error
}
