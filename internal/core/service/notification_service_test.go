package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

func newNotificationFixture() (*NotificationService, *stubAppRepo, *stubRoleRepo, *stubMessenger) {
	apps := newStubAppRepo()
	roles := newStubRoleRepo()
	msgr := &stubMessenger{}
	svc := NewNotificationService(apps, NewRoleService(roles, zerolog.Nop()), msgr, zerolog.Nop())
	return svc, apps, roles, msgr
}

func seedPendingDeposit(t *testing.T, apps *stubAppRepo, id string, createdAt time.Time) {
	t.Helper()
	err := apps.Create(context.Background(), &domain.Application{
		ID:        id,
		UserID:    1,
		Type:      domain.TypeDeposit,
		Status:    domain.StatusPending,
		TxHash:    fmt.Sprintf("%064d", createdAt.UnixNano()),
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestNotification_Refresh_CreatesThenEdits(t *testing.T) {
	svc, apps, _, msgr := newNotificationFixture()
	ctx := context.Background()

	seedPendingDeposit(t, apps, "app_1_aa", time.Now())
	svc.Refresh(ctx, 900)
	if len(msgr.sent) != 1 {
		t.Fatalf("expected 1 summary message, got %d", len(msgr.sent))
	}

	seedPendingDeposit(t, apps, "app_2_bb", time.Now())
	svc.Refresh(ctx, 900)
	if len(msgr.sent) != 1 {
		t.Fatalf("count change must edit in place, got %d sends", len(msgr.sent))
	}
	if len(msgr.edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(msgr.edits))
	}
}

func TestNotification_Refresh_DeletesWhenDrained(t *testing.T) {
	svc, apps, _, msgr := newNotificationFixture()
	ctx := context.Background()

	seedPendingDeposit(t, apps, "app_1_aa", time.Now())
	svc.Refresh(ctx, 900)

	if err := apps.UpdateStatus(ctx, "app_1_aa", domain.StatusPending, domain.StatusInProgress, 900, ""); err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	svc.Refresh(ctx, 900)

	if len(msgr.deleted) != 1 {
		t.Fatalf("expected summary deletion, got %v", msgr.deleted)
	}

	// A later refresh on an empty queue must not try to delete again.
	svc.Refresh(ctx, 900)
	if len(msgr.deleted) != 1 {
		t.Fatalf("expected no further deletions, got %v", msgr.deleted)
	}
}

func TestNotification_Refresh_RecreatesOnEditFailure(t *testing.T) {
	svc, apps, _, msgr := newNotificationFixture()
	ctx := context.Background()

	seedPendingDeposit(t, apps, "app_1_aa", time.Now())
	svc.Refresh(ctx, 900)

	msgr.editErr = errors.New("message to edit not found")
	seedPendingDeposit(t, apps, "app_2_bb", time.Now())
	svc.Refresh(ctx, 900)

	if len(msgr.sent) != 2 {
		t.Fatalf("expected a fresh summary after edit failure, got %d sends", len(msgr.sent))
	}

	// The new message id must be tracked: the next refresh edits it.
	msgr.editErr = nil
	seedPendingDeposit(t, apps, "app_3_cc", time.Now())
	svc.Refresh(ctx, 900)
	if len(msgr.sent) != 2 {
		t.Fatalf("expected edit of recreated summary, got %d sends", len(msgr.sent))
	}
}

func TestNotification_ShowNext_FIFO(t *testing.T) {
	svc, apps, _, _ := newNotificationFixture()
	ctx := context.Background()

	base := time.Now()
	seedPendingDeposit(t, apps, "app_1_aa", base)
	seedPendingDeposit(t, apps, "app_2_bb", base.Add(time.Minute))
	seedPendingDeposit(t, apps, "app_3_cc", base.Add(2*time.Minute))

	app, count, err := svc.ShowNext(ctx, 900)
	if err != nil {
		t.Fatalf("ShowNext failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
	if app.ID != "app_1_aa" {
		t.Fatalf("expected oldest deposit first, got %s", app.ID)
	}
}

func TestNotification_ShowNext_Empty(t *testing.T) {
	svc, _, _, _ := newNotificationFixture()

	app, count, err := svc.ShowNext(context.Background(), 900)
	if err != nil {
		t.Fatalf("ShowNext failed: %v", err)
	}
	if app != nil || count != 0 {
		t.Fatalf("expected empty queue, got app=%v count=%d", app, count)
	}
}

func TestNotification_Broadcast_FansOutToSuperAdmins(t *testing.T) {
	svc, apps, roles, msgr := newNotificationFixture()
	ctx := context.Background()

	roles.roles[900] = domain.RoleSuperAdmin
	roles.roles[901] = domain.RoleSuperAdmin
	roles.roles[902] = domain.RoleAdmin

	seedPendingDeposit(t, apps, "app_1_aa", time.Now())
	svc.BroadcastNewDeposit(ctx)

	if len(msgr.sent) != 2 {
		t.Fatalf("expected summaries for 2 super admins, got %d", len(msgr.sent))
	}
	chats := map[int64]bool{}
	for _, m := range msgr.sent {
		chats[m.chatID] = true
	}
	if !chats[900] || !chats[901] || chats[902] {
		t.Fatalf("unexpected recipients: %+v", msgr.sent)
	}
}
