package ports

import (
	"context"
	"time"
)

// TronTransaction is the explorer's view of a single transfer.
type TronTransaction struct {
	Hash      string
	From      string
	To        string
	Amount    float64
	Token     string
	Timestamp time.Time
	Confirmed bool
}

// VerificationResult is the outcome of a transaction lookup. Err being
// non-empty means verification could not complete, not that the transaction
// is invalid; callers must offer a retry path instead of auto-rejecting.
type VerificationResult struct {
	Success bool
	Tx      *TronTransaction
	Err     string
}

// VerificationGateway adapts the external blockchain explorer into internal
// verification results. Implementations never panic and never return a Go
// error for remote failures; those surface in VerificationResult.Err.
type VerificationGateway interface {
	// VerifyTransaction validates the hash shape locally (64 hex characters)
	// before making any external call.
	VerifyTransaction(ctx context.Context, txHash string, expectedAmount float64) VerificationResult
	// PaysOfficialWallet reports whether the transaction's destination is the
	// configured official wallet, by strict equality.
	PaysOfficialWallet(tx *TronTransaction) bool
	// ValidWalletAddress is offline shape validation: prefix, fixed length,
	// Base58 alphabet.
	ValidWalletAddress(address string) bool
	// OfficialWallet returns the configured destination address.
	OfficialWallet() string
}

// ReceiptVerdict is the receipt-authenticity service's view of an uploaded
// document.
type ReceiptVerdict struct {
	StructPassed bool
	IsOriginal   bool
	Color        string // risk tier: green, yellow, red, black
	Fields       map[string]string
}

// ReceiptChecker adapts the external receipt-authenticity API. A nil verdict
// with nil error means the check was inconclusive, never "confirmed
// fraudulent".
type ReceiptChecker interface {
	CheckReceipt(ctx context.Context, fileURL string) (*ReceiptVerdict, error)
}
