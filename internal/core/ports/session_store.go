package ports

import (
	"context"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// SessionStore holds the short-lived per-user capture state. Absent sessions
// read as idle; implementations expire abandoned sessions after an
// inactivity window so a half-finished flow cannot wedge a user forever.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (domain.Session, error)
	Set(ctx context.Context, userID int64, s domain.Session) error
	Clear(ctx context.Context, userID int64) error
}
