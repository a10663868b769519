package ports

import "context"

// Messenger abstracts the messaging transport the dispatcher and workflow
// call back into. All calls are fallible and non-critical: callers log and
// continue on failure.
type Messenger interface {
	// Send delivers a message to a chat and returns the transport message id
	// for later edits or deletion.
	Send(ctx context.Context, chatID int64, text string) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string) error
	Delete(ctx context.Context, chatID int64, messageID int) error
}
