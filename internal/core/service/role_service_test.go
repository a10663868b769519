package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

type failingRoleRepo struct{}

func (failingRoleRepo) Get(context.Context, int64) (domain.Role, error) {
	return "", errors.New("store down")
}
func (failingRoleRepo) Set(context.Context, int64, domain.Role) error {
	return errors.New("store down")
}
func (failingRoleRepo) ListByRole(context.Context, domain.Role) ([]int64, error) {
	return nil, errors.New("store down")
}

func TestRoleService_DefaultsToUser(t *testing.T) {
	svc := NewRoleService(newStubRoleRepo(), zerolog.Nop())

	if got := svc.Role(context.Background(), 1); got != domain.RoleUser {
		t.Fatalf("expected user for unknown id, got %s", got)
	}
}

func TestRoleService_DegradedStoreDefaultsToUser(t *testing.T) {
	svc := NewRoleService(failingRoleRepo{}, zerolog.Nop())

	if got := svc.Role(context.Background(), 1); got != domain.RoleUser {
		t.Fatalf("a failing store must degrade to user, got %s", got)
	}
}

func TestRoleService_SetAndRemove(t *testing.T) {
	repo := newStubRoleRepo()
	svc := NewRoleService(repo, zerolog.Nop())
	ctx := context.Background()

	if err := svc.SetRole(ctx, 5, domain.RoleAdmin); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	if got := svc.Role(ctx, 5); got != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", got)
	}

	if err := svc.RemoveRole(ctx, 5); err != nil {
		t.Fatalf("RemoveRole failed: %v", err)
	}
	if got := svc.Role(ctx, 5); got != domain.RoleUser {
		t.Fatalf("expected user after removal, got %s", got)
	}
}

func TestRoleService_SetRejectsUnknownRole(t *testing.T) {
	svc := NewRoleService(newStubRoleRepo(), zerolog.Nop())

	if err := svc.SetRole(context.Background(), 5, "bogus"); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestRoleService_Require(t *testing.T) {
	repo := newStubRoleRepo()
	repo.roles[7] = domain.RoleSuperAdmin
	svc := NewRoleService(repo, zerolog.Nop())
	ctx := context.Background()

	manageRoles := func(p domain.PermissionSet) bool { return p.ManageRoles }

	if err := svc.Require(ctx, 7, manageRoles, "assign_role"); err != nil {
		t.Fatalf("super admin must pass: %v", err)
	}
	if err := svc.Require(ctx, 8, manageRoles, "assign_role"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
