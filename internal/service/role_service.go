package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	"github.com/ticketdesk/ticketdesk/internal/repository"
	apperrors "github.com/ticketdesk/ticketdesk/pkg/util/errorutil"
)

// RoleService manages the roles reference table. Plain reference-data
// management; the MANAGER-only gate sits on the routes.
type RoleService struct {
	roles repository.RoleRepository
}

// NewRoleService constructs the service.
func NewRoleService(roles repository.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

// ListRoles returns all roles.
func (s *RoleService) ListRoles(ctx context.Context) ([]domain.RoleRecord, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return roles, nil
}

// GetRole fetches a role by id.
func (s *RoleService) GetRole(ctx context.Context, id int64) (*domain.RoleRecord, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"role_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

// CreateRole adds a new role name; duplicates are rejected.
func (s *RoleService) CreateRole(ctx context.Context, name string) (*domain.RoleRecord, error) {
	trimmed := domain.Role(strings.ToUpper(strings.TrimSpace(name)))
	if trimmed == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.roles.GetByName(ctx, trimmed); err == nil {
		return nil, apperrors.NewConflict("role already exists", map[string]any{"name": trimmed})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	role := &domain.RoleRecord{Name: trimmed}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

// UpdateRole renames a role.
func (s *RoleService) UpdateRole(ctx context.Context, id int64, name string) (*domain.RoleRecord, error) {
	trimmed := domain.Role(strings.ToUpper(strings.TrimSpace(name)))
	if trimmed == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if err := s.roles.UpdateName(ctx, id, trimmed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"role_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return s.GetRole(ctx, id)
}

// DeleteRole removes a role.
func (s *RoleService) DeleteRole(ctx context.Context, id int64) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("role", map[string]any{"role_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
