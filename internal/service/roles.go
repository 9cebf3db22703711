package service

import (
	"context"
	"fmt"

	apperrors "jpo/internal/errors"
	"jpo/internal/models"
)

// RoleStore is the persistence surface of role management. Implemented by
// repository.RoleRepository.
type RoleStore interface {
	List(ctx context.Context, search string) ([]models.RoleSummary, error)
	GetByID(ctx context.Context, id int64) (*models.RoleSummary, error)
	Create(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, id int64, name string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserLister narrows the user repository to what role membership needs.
type UserLister interface {
	List(ctx context.Context, filters models.UserFilters) ([]models.UserSummary, error)
}

type RoleService struct {
	roles RoleStore
	users UserLister
}

func NewRoleService(roles RoleStore, users UserLister) *RoleService {
	return &RoleService{roles: roles, users: users}
}

func (s *RoleService) List(ctx context.Context, search string) ([]models.RoleSummary, error) {
	roles, err := s.roles.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) Get(ctx context.Context, id int64) (*models.RoleSummary, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, apperrors.ErrNotFound
	}
	return role, nil
}

func (s *RoleService) Create(ctx context.Context, req *models.CreateRoleRequest) (*models.RoleSummary, error) {
	id, err := s.roles.Create(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *RoleService) Update(ctx context.Context, id int64, req *models.UpdateRoleRequest) (*models.RoleSummary, error) {
	ok, err := s.roles.Update(ctx, id, req.RoleName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	return s.Get(ctx, id)
}

// Delete removes a role. Roles still assigned to users are refused, never
// cascaded.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	ok, err := s.roles.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

// Users returns the members of one role.
func (s *RoleService) Users(ctx context.Context, id int64) (*models.RoleUsers, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, apperrors.ErrNotFound
	}

	users, err := s.users.List(ctx, models.UserFilters{RoleID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list role users: %w", err)
	}

	return &models.RoleUsers{
		RoleID: id,
		Users:  users,
		Count:  len(users),
	}, nil
}
