package ports

import (
	"context"
	"time"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// ListDepositsFilter carries query parameters for browsing the ledger.
type ListDepositsFilter struct {
	Status   domain.DepositStatus // optional
	UserID   int64                // optional, 0 = all users
	DateFrom time.Time            // optional
	DateTo   time.Time            // optional
	Limit    int
	Offset   int
}

// DepositRepository is the hash-keyed deposit ledger mirror used for
// financial reconciliation.
type DepositRepository interface {
	// Save inserts a new ledger row. A reused hash yields
	// domain.ErrDuplicateDeposit, distinct from any other failure.
	Save(ctx context.Context, rec *domain.DepositRecord) error
	// GetByHash returns the row for a hash or domain.ErrDepositNotFound.
	GetByHash(ctx context.Context, hash string) (*domain.DepositRecord, error)
	// SetStatus flips a pending row to approved or rejected, recording the
	// processing staff id and timestamp. Rows already processed are left
	// untouched and reported via domain.ErrInvalidTransition.
	SetStatus(ctx context.Context, hash string, status domain.DepositStatus, processedBy int64) error
	List(ctx context.Context, filter ListDepositsFilter) ([]*domain.DepositRecord, error)
	Stats(ctx context.Context) (*domain.DepositStats, error)
}
