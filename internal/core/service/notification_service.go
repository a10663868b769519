package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/otcdesk/exchange-bot/internal/api/metrics"
	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

// NotificationService keeps exactly one pending-deposit summary message per
// reviewer: created when work appears, edited in place as the count changes,
// deleted when the queue drains. Message ids live in memory only; after a
// restart the next refresh simply creates a fresh summary.
type NotificationService struct {
	apps   ports.ApplicationRepository
	roles  *RoleService
	msgr   ports.Messenger
	logger zerolog.Logger

	mu       sync.Mutex
	messages map[int64]int // reviewer id -> summary message id
}

func NewNotificationService(apps ports.ApplicationRepository, roles *RoleService, msgr ports.Messenger, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		apps:     apps,
		roles:    roles,
		msgr:     msgr,
		logger:   logger,
		messages: make(map[int64]int),
	}
}

// Refresh reconciles the reviewer's summary message with the current pending
// deposit count. Transport failures are logged and absorbed; the triggering
// workflow never fails because a chat update did.
func (s *NotificationService) Refresh(ctx context.Context, reviewerID int64) {
	pending, err := s.apps.ListPendingDeposits(ctx)
	if err != nil {
		metrics.NotificationRefreshesTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Int64("reviewer_id", reviewerID).Msg("pending deposits lookup failed")
		return
	}
	count := len(pending)
	metrics.PendingDeposits.Set(float64(count))

	s.mu.Lock()
	msgID, exists := s.messages[reviewerID]
	s.mu.Unlock()

	if count == 0 {
		if exists {
			if err := s.msgr.Delete(ctx, reviewerID, msgID); err != nil {
				s.logger.Warn().Err(err).Int64("reviewer_id", reviewerID).Msg("failed to delete summary message")
			}
			s.forget(reviewerID)
		}
		metrics.NotificationRefreshesTotal.WithLabelValues("cleared").Inc()
		return
	}

	text := summaryText(count)
	if exists {
		if err := s.msgr.Edit(ctx, reviewerID, msgID, text); err == nil {
			metrics.NotificationRefreshesTotal.WithLabelValues("edited").Inc()
			return
		}
		// The tracked message is gone or stale; fall through and recreate so
		// the reviewer never ends up with two summaries.
		s.logger.Warn().Int64("reviewer_id", reviewerID).Int("message_id", msgID).Msg("summary edit failed, recreating")
		s.forget(reviewerID)
	}

	newID, err := s.msgr.Send(ctx, reviewerID, text)
	if err != nil {
		metrics.NotificationRefreshesTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Int64("reviewer_id", reviewerID).Msg("failed to send summary message")
		return
	}
	s.mu.Lock()
	s.messages[reviewerID] = newID
	s.mu.Unlock()
	metrics.NotificationRefreshesTotal.WithLabelValues("created").Inc()
}

// ShowNext returns the oldest pending deposit and the total queue size. The
// reviewer works the queue strictly FIFO; a nil application means it drained.
func (s *NotificationService) ShowNext(ctx context.Context, reviewerID int64) (*domain.Application, int, error) {
	pending, err := s.apps.ListPendingDeposits(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("show next deposit: %w", err)
	}
	if len(pending) == 0 {
		return nil, 0, nil
	}
	return pending[0], len(pending), nil
}

// BroadcastNewDeposit refreshes the summary for every super admin. Reviewers
// that cannot be resolved are skipped, not fatal.
func (s *NotificationService) BroadcastNewDeposit(ctx context.Context) {
	reviewers, err := s.roles.ListByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		s.logger.Error().Err(err).Msg("reviewer list lookup failed, skipping broadcast")
		return
	}
	for _, id := range reviewers {
		s.Refresh(ctx, id)
	}
}

func (s *NotificationService) forget(reviewerID int64) {
	s.mu.Lock()
	delete(s.messages, reviewerID)
	s.mu.Unlock()
}

func summaryText(count int) string {
	return fmt.Sprintf("📥 Pending deposits: %d\n\nUse /process to review the oldest one.", count)
}
