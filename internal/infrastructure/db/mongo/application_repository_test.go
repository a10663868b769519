package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

// The transition guard must run before any query, so a zero-value repository
// is enough to prove illegal pairs never reach the collection. Terminal
// statuses have no outgoing edges; a caller passing one as the source must
// not be able to rewrite the record.
func TestApplicationRepository_UpdateStatus_RejectsIllegalTransitions(t *testing.T) {
	repo := &ApplicationRepository{}
	ctx := context.Background()

	cases := []struct {
		name     string
		from, to domain.ApplicationStatus
	}{
		{"completed_to_pending", domain.StatusCompleted, domain.StatusPending},
		{"rejected_to_in_progress", domain.StatusRejected, domain.StatusInProgress},
		{"approved_to_pending", domain.StatusApproved, domain.StatusPending},
		{"pending_to_completed", domain.StatusPending, domain.StatusCompleted},
		{"in_progress_to_approved", domain.StatusInProgress, domain.StatusApproved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.UpdateStatus(ctx, "app_1_aa", tc.from, tc.to, 900, "")
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("UpdateStatus(%s -> %s) = %v, want ErrInvalidTransition", tc.from, tc.to, err)
			}
		})
	}
}
