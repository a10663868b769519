package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ApplicationType classifies what a user is asking for.
type ApplicationType string

const (
	TypeDeposit      ApplicationType = "deposit"
	TypeWithdraw     ApplicationType = "withdraw"
	TypeExchange     ApplicationType = "exchange"
	TypeSupport      ApplicationType = "support"
	TypeVerification ApplicationType = "verification"
	TypeOther        ApplicationType = "other"
)

// ApplicationStatus represents the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusPending    ApplicationStatus = "pending"
	StatusInProgress ApplicationStatus = "in_progress"
	StatusApproved   ApplicationStatus = "approved"
	StatusCompleted  ApplicationStatus = "completed"
	StatusRejected   ApplicationStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// Deposits resolve through IN_PROGRESS to COMPLETED; other application types
// resolve directly from PENDING to APPROVED. APPROVED, COMPLETED and REJECTED
// are terminal.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:    {StatusInProgress, StatusApproved, StatusRejected},
	StatusInProgress: {StatusCompleted, StatusRejected},
}

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrForbidden           = errors.New("permission denied")
	ErrSelfAction          = errors.New("action targets own account")
)

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are permitted from s.
func (s ApplicationStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Application is the core aggregate: a user-submitted request tracked through
// a status lifecycle and resolved by staff.
type Application struct {
	ID            string            `json:"id" bson:"_id"`
	UserID        int64             `json:"user_id" bson:"user_id"`
	Type          ApplicationType   `json:"type" bson:"type"`
	Status        ApplicationStatus `json:"status" bson:"status"`
	Title         string            `json:"title" bson:"title"`
	Description   string            `json:"description" bson:"description"`
	Amount        float64           `json:"amount,omitempty" bson:"amount,omitempty"`
	Currency      string            `json:"currency,omitempty" bson:"currency,omitempty"`
	WalletAddress string            `json:"wallet_address,omitempty" bson:"wallet_address,omitempty"`
	TxHash        string            `json:"tx_hash,omitempty" bson:"tx_hash,omitempty"`
	// ExchangeRate and AmountRub are frozen at submission time and never
	// recomputed, even if the global rate configuration changes later.
	ExchangeRate  float64   `json:"exchange_rate,omitempty" bson:"exchange_rate,omitempty"`
	AmountRub     float64   `json:"amount_rub,omitempty" bson:"amount_rub,omitempty"`
	TeamName      string    `json:"team_name,omitempty" bson:"team_name,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	AdminID       int64     `json:"admin_id,omitempty" bson:"admin_id,omitempty"`
	AdminResponse string    `json:"admin_response,omitempty" bson:"admin_response,omitempty"`
}

// ShortID returns the human-decodable sequence fragment embedded in the id,
// used when referencing an application in chat messages.
func (a *Application) ShortID() string {
	parts := strings.SplitN(a.ID, "_", 3)
	if len(parts) >= 2 {
		return parts[1]
	}
	return a.ID
}

// TypeLabel returns a display name for an application type. Unknown values
// fall back instead of crashing formatting.
func (t ApplicationType) TypeLabel() string {
	switch t {
	case TypeDeposit:
		return "Deposit"
	case TypeWithdraw:
		return "Withdrawal"
	case TypeExchange:
		return "Currency exchange"
	case TypeSupport:
		return "Support request"
	case TypeVerification:
		return "Document verification"
	case TypeOther:
		return "Other"
	default:
		return fmt.Sprintf("Unknown (%s)", string(t))
	}
}

// StatusLabel returns a display name for a status, with an unknown fallback.
func (s ApplicationStatus) StatusLabel() string {
	switch s {
	case StatusPending:
		return "Pending review"
	case StatusInProgress:
		return "In progress"
	case StatusApproved:
		return "Approved"
	case StatusCompleted:
		return "Completed"
	case StatusRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("Unknown (%s)", string(s))
	}
}

// StatusIcon returns the emoji marker used in list views.
func (s ApplicationStatus) StatusIcon() string {
	switch s {
	case StatusPending:
		return "⏳"
	case StatusInProgress:
		return "🔄"
	case StatusApproved, StatusCompleted:
		return "✅"
	case StatusRejected:
		return "❌"
	default:
		return "❓"
	}
}
