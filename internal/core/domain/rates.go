package domain

import "time"

// ExchangeRates is the global rate configuration: an exchange base rate plus
// direction-specific margins. The workflow freezes a computed rate into each
// application at submission; later changes here are prospective only.
type ExchangeRates struct {
	BaseRate         float64   `json:"base_rate"`
	DepositMargin    float64   `json:"deposit_margin"`
	WithdrawalMargin float64   `json:"withdrawal_margin"`
	LastUpdated      time.Time `json:"last_updated"`
}

// DepositRate is the effective rate applied to deposits.
func (r ExchangeRates) DepositRate() float64 {
	return r.BaseRate * (1 + r.DepositMargin/100)
}

// WithdrawalRate is the effective rate applied to withdrawals.
func (r ExchangeRates) WithdrawalRate() float64 {
	return r.BaseRate * (1 + r.WithdrawalMargin/100)
}
