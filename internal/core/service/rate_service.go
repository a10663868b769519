package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// RateService owns the mutable exchange-rate configuration. Reads return a
// copy; margin or base-rate changes apply prospectively only, applications
// keep the rate frozen at their submission time.
type RateService struct {
	mu     sync.RWMutex
	rates  domain.ExchangeRates
	logger zerolog.Logger
}

func NewRateService(baseRate, depositMargin, withdrawalMargin float64, logger zerolog.Logger) *RateService {
	return &RateService{
		rates: domain.ExchangeRates{
			BaseRate:         baseRate,
			DepositMargin:    depositMargin,
			WithdrawalMargin: withdrawalMargin,
			LastUpdated:      time.Now().UTC(),
		},
		logger: logger,
	}
}

// Rates returns a snapshot of the current configuration.
func (s *RateService) Rates() domain.ExchangeRates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates
}

func (s *RateService) SetBaseRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates.BaseRate = rate
	s.rates.LastUpdated = time.Now().UTC()
	s.logger.Info().Float64("base_rate", rate).Msg("base rate updated")
}

func (s *RateService) SetDepositMargin(margin float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates.DepositMargin = margin
	s.rates.LastUpdated = time.Now().UTC()
	s.logger.Info().Float64("deposit_margin", margin).Msg("deposit margin updated")
}

func (s *RateService) SetWithdrawalMargin(margin float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates.WithdrawalMargin = margin
	s.rates.LastUpdated = time.Now().UTC()
	s.logger.Info().Float64("withdrawal_margin", margin).Msg("withdrawal margin updated")
}
