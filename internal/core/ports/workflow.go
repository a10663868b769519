package ports

import (
	"context"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// DepositPrompt carries the data shown to a user when a deposit capture
// starts: the effective rate and the destination wallet.
type DepositPrompt struct {
	DepositRate    float64
	OfficialWallet string
}

// WithdrawPrompt carries the effective rate shown when a withdrawal starts.
type WithdrawPrompt struct {
	WithdrawalRate float64
}

// ProcessChecks itemizes the verification gates evaluated when a reviewer
// processes a deposit.
type ProcessChecks struct {
	WalletOK    bool
	TokenOK     bool
	ConfirmedOK bool
}

// ProcessReport is the outcome of a reviewer's "process" action. Ready is
// true only when every check passed and the application was moved to
// IN_PROGRESS; otherwise the application remains PENDING and the reviewer
// may retry.
type ProcessReport struct {
	Application *domain.Application
	Tx          *TronTransaction
	Checks      ProcessChecks
	Ready       bool
	// GatewayErr holds the human-readable reason when verification could not
	// complete. The deposit is not treated as invalid in that case.
	GatewayErr string
}

// Workflow orchestrates application creation, verification-gated review and
// resolution. Every operation enforces the caller's permissions.
type Workflow interface {
	StartDeposit(ctx context.Context, userID int64) (*DepositPrompt, error)
	SubmitDepositData(ctx context.Context, userID int64, text string) (*domain.Application, error)

	StartWithdraw(ctx context.Context, userID int64) (*WithdrawPrompt, error)
	SubmitWithdrawAmount(ctx context.Context, userID int64, text string) (float64, error)
	SubmitWithdrawWallet(ctx context.Context, userID int64, text string) (*domain.Application, error)

	StartApplication(ctx context.Context, userID int64, t domain.ApplicationType) error
	SubmitApplicationDetails(ctx context.Context, userID int64, text string) (*domain.Application, error)

	ListUserApplications(ctx context.Context, userID int64) ([]*domain.Application, error)
	ListPendingApplications(ctx context.Context, reviewerID int64) ([]*domain.Application, error)

	ProcessDeposit(ctx context.Context, reviewerID int64, appID string) (*ProcessReport, error)
	ApproveDeposit(ctx context.Context, reviewerID int64, appID string) (*domain.Application, error)
	RejectDeposit(ctx context.Context, reviewerID int64, appID string) (*domain.Application, error)
	ResolveApplication(ctx context.Context, reviewerID int64, appID string, approve bool, response string) (*domain.Application, error)
	DeleteApplication(ctx context.Context, actorID int64, appID string) error

	StartReply(ctx context.Context, reviewerID int64, appID string) (*domain.Application, error)
	SubmitReply(ctx context.Context, reviewerID int64, text string) (*domain.Application, error)

	AssignRole(ctx context.Context, actorID, targetID int64, role domain.Role) (domain.Role, error)
	RevokeRole(ctx context.Context, actorID, targetID int64) error

	AbortFlow(ctx context.Context, userID int64) error
}
