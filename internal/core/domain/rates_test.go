package domain

import (
	"math"
	"testing"
)

func TestEffectiveRates(t *testing.T) {
	r := ExchangeRates{BaseRate: 100, DepositMargin: 5, WithdrawalMargin: 2.5}

	if got := r.DepositRate(); math.Abs(got-105) > 1e-9 {
		t.Fatalf("DepositRate = %v, want 105", got)
	}
	if got := r.WithdrawalRate(); math.Abs(got-102.5) > 1e-9 {
		t.Fatalf("WithdrawalRate = %v, want 102.5", got)
	}
}

func TestNegativeMarginDiscountsRate(t *testing.T) {
	r := ExchangeRates{BaseRate: 100, DepositMargin: -10}
	if got := r.DepositRate(); math.Abs(got-90) > 1e-9 {
		t.Fatalf("DepositRate = %v, want 90", got)
	}
}

func TestValidTxHash(t *testing.T) {
	valid := "0123456789abcdefABCDEF0123456789abcdef0123456789abcdef0123456789"
	if !ValidTxHash(valid) {
		t.Fatalf("expected %q to be valid", valid)
	}

	invalid := []string{
		"",
		"abc",
		valid + "0",
		valid[:63],
		"g" + valid[1:],
		"0x" + valid[:62],
	}
	for _, h := range invalid {
		if ValidTxHash(h) {
			t.Errorf("expected %q to be invalid", h)
		}
	}
}
