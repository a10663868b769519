package ports

import (
	"context"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// Notifier maintains the single pending-deposit summary message per reviewer.
type Notifier interface {
	// Refresh recomputes the reviewer's pending-deposit count and creates,
	// edits or deletes the summary message accordingly. Transport failures
	// are absorbed, never fatal to the triggering workflow.
	Refresh(ctx context.Context, reviewerID int64)
	// ShowNext returns the oldest pending deposit (FIFO) and the total
	// pending count, or nil when the queue is empty.
	ShowNext(ctx context.Context, reviewerID int64) (*domain.Application, int, error)
	// BroadcastNewDeposit refreshes every reviewer with deposit-review
	// permission.
	BroadcastNewDeposit(ctx context.Context)
}
