package service

import (
	"context"
	"fmt"

	apperrors "jpo/internal/errors"
	"jpo/internal/models"
	"jpo/internal/repository"
)

type UserService struct {
	users         *repository.UserRepository
	registrations *repository.RegistrationRepository
	comments      *repository.CommentRepository
}

func NewUserService(
	users *repository.UserRepository,
	registrations *repository.RegistrationRepository,
	comments *repository.CommentRepository,
) *UserService {
	return &UserService{
		users:         users,
		registrations: registrations,
		comments:      comments,
	}
}

func (s *UserService) List(ctx context.Context, filters models.UserFilters) ([]models.UserSummary, error) {
	users, err := s.users.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.UserSummary, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// Registrations returns one user's registrations, newest first.
func (s *UserService) Registrations(ctx context.Context, id int64) ([]models.RegistrationDetail, error) {
	exists, err := s.users.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	registrations, err := s.registrations.List(ctx, models.RegistrationFilters{UserID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list user registrations: %w", err)
	}
	return registrations, nil
}

// Comments returns one user's comments, newest first.
func (s *UserService) Comments(ctx context.Context, id int64) ([]models.CommentDetail, error) {
	exists, err := s.users.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	comments, err := s.comments.List(ctx, models.CommentFilters{UserID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list user comments: %w", err)
	}
	return comments, nil
}
