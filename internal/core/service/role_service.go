package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

// RoleService is the role registry: it resolves a user identity to a role
// and derives its permission set. Unknown users are plain USERs. The
// registry performs no self-action checks; those belong to the workflow.
type RoleService struct {
	repo   ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, logger: logger}
}

// Role returns the user's role, defaulting to USER when the lookup fails.
// It never returns an error to the caller: a degraded registry must not
// lock users out of the public surface.
func (s *RoleService) Role(ctx context.Context, userID int64) domain.Role {
	role, err := s.repo.Get(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("role lookup failed, defaulting to user")
		return domain.RoleUser
	}
	if !role.Valid() {
		return domain.RoleUser
	}
	return role
}

// Permissions is Role composed with the pure role → permission-set function.
func (s *RoleService) Permissions(ctx context.Context, userID int64) domain.PermissionSet {
	return s.Role(ctx, userID).Permissions()
}

// SetRole moves a user into exactly one role partition. Idempotent; fails
// only on storage errors.
func (s *RoleService) SetRole(ctx context.Context, userID int64, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("set role %q: %w", role, domain.ErrUnknownRole)
	}
	if err := s.repo.Set(ctx, userID, role); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	s.logger.Info().Int64("user_id", userID).Str("role", string(role)).Msg("role assigned")
	return nil
}

// RemoveRole demotes a user back to plain USER.
func (s *RoleService) RemoveRole(ctx context.Context, userID int64) error {
	return s.SetRole(ctx, userID, domain.RoleUser)
}

// ListByRole enumerates users holding the given role, used for reviewer
// notification fan-out.
func (s *RoleService) ListByRole(ctx context.Context, role domain.Role) ([]int64, error) {
	ids, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list by role: %w", err)
	}
	return ids, nil
}

// Require checks a single permission flag for a user and returns
// domain.ErrForbidden when it is not granted. Denials are logged as
// security-relevant events.
func (s *RoleService) Require(ctx context.Context, userID int64, check func(domain.PermissionSet) bool, action string) error {
	if check(s.Permissions(ctx, userID)) {
		return nil
	}
	s.logger.Warn().Int64("user_id", userID).Str("action", action).Msg("permission denied")
	return fmt.Errorf("%s: %w", action, domain.ErrForbidden)
}
