package ports

import (
	"context"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.Application) error
	// Get retrieves an application by id, returning
	// domain.ErrApplicationNotFound when no such application exists.
	Get(ctx context.Context, id string) (*domain.Application, error)
	// ListByUser returns the user's applications in insertion order.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Application, error)
	// ListPending returns pending applications newest first. This is the
	// browsing order for the staff "all pending" view.
	ListPending(ctx context.Context) ([]*domain.Application, error)
	// ListPendingDeposits returns pending deposit applications oldest first
	// (FIFO), the ordering used by the process-next reviewer action.
	ListPendingDeposits(ctx context.Context) ([]*domain.Application, error)
	// UpdateStatus transitions an application from the expected source status
	// to the new status as a single atomic compare-and-swap. It returns
	// domain.ErrInvalidTransition when the application is not in the expected
	// source status and domain.ErrApplicationNotFound when the id is unknown.
	UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, adminID int64, adminResponse string) error
	// SetResponse attaches a staff reply to an application without changing
	// its status.
	SetResponse(ctx context.Context, id string, adminID int64, response string) error
	Delete(ctx context.Context, id string) error
}
