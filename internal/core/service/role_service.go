package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// RoleService administrates roles. A role cannot be deleted while any user
// still references it.
type RoleService struct {
	roles ports.RoleRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, log: log}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, persistence("list roles", err)
	}
	return roles, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, name string) error {
	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return err
		}
		return persistence("delete role", err)
	}

	n, err := s.users.CountByRole(ctx, role.ID)
	if err != nil {
		return persistence("delete role", err)
	}
	if n > 0 {
		return fmt.Errorf("delete role %q: %w (%d users)", name, domain.ErrRoleInUse, n)
	}

	if err := s.roles.Delete(ctx, name); err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return err
		}
		return persistence("delete role", err)
	}
	s.log.Info().Str("role", name).Msg("role deleted")
	return nil
}
