package ports

import (
	"context"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// OperatorRepository persists back-office operator accounts.
type OperatorRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Operator, error)
	Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error)
}
