package domain

import (
	"errors"
	"time"
)

// DepositStatus is the state of a ledger row, mirroring the application
// lifecycle of its deposit.
type DepositStatus string

const (
	DepositPending  DepositStatus = "pending"
	DepositApproved DepositStatus = "approved"
	DepositRejected DepositStatus = "rejected"
)

var (
	// ErrDuplicateDeposit is returned when a submission reuses a transaction
	// hash that already has a ledger row. Distinct from ErrDepositNotFound so
	// callers can tell "already submitted" apart from storage failures.
	ErrDuplicateDeposit = errors.New("deposit already submitted for this hash")
	ErrDepositNotFound  = errors.New("deposit not found")
)

// DepositRecord is the persisted reconciliation mirror of a deposit
// application, keyed by the unique transaction hash.
type DepositRecord struct {
	ID           int64         `json:"id"`
	Hash         string        `json:"hash"`
	Date         time.Time     `json:"date"`
	ExchangeRate float64       `json:"exchange_rate"`
	AmountUsdt   float64       `json:"amount_usdt"`
	AmountRub    float64       `json:"amount_rub"`
	UserID       int64         `json:"user_id"`
	ProcessedBy  int64         `json:"processed_by,omitempty"`
	Status       DepositStatus `json:"status"`
	TeamName     string        `json:"team_name,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	ProcessedAt  time.Time     `json:"processed_at,omitempty"`
}

// DepositStats aggregates the ledger for reporting.
type DepositStats struct {
	Total            int64   `json:"total"`
	Pending          int64   `json:"pending"`
	Approved         int64   `json:"approved"`
	Rejected         int64   `json:"rejected"`
	TotalUsdtApproved float64 `json:"total_usdt_approved"`
	TotalRubApproved  float64 `json:"total_rub_approved"`
}
