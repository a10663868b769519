package ports

import (
	"context"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// RoleRepository persists the userId → role mapping. Users absent from the
// store are plain USERs.
type RoleRepository interface {
	// Get returns the stored role for a user, or domain.RoleUser when the
	// user has no explicit assignment.
	Get(ctx context.Context, userID int64) (domain.Role, error)
	// Set moves a user into exactly one role partition, removing it from any
	// other. Idempotent.
	Set(ctx context.Context, userID int64, role domain.Role) error
	// ListByRole enumerates all users holding the given role.
	ListByRole(ctx context.Context, role domain.Role) ([]int64, error)
}
