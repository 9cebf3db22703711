package service

import (
	"context"
	"fmt"

	apperrors "jpo/internal/errors"
	"jpo/internal/models"
	"jpo/internal/repository"
)

type CampusService struct {
	campuses *repository.CampusRepository
	openDays *repository.OpenDayRepository
}

func NewCampusService(campuses *repository.CampusRepository, openDays *repository.OpenDayRepository) *CampusService {
	return &CampusService{campuses: campuses, openDays: openDays}
}

func (s *CampusService) List(ctx context.Context, filters models.CampusFilters) ([]models.CampusSummary, error) {
	campuses, err := s.campuses.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list campuses: %w", err)
	}
	return campuses, nil
}

func (s *CampusService) Get(ctx context.Context, id int64) (*models.CampusSummary, error) {
	campus, err := s.campuses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get campus: %w", err)
	}
	if campus == nil {
		return nil, apperrors.ErrNotFound
	}
	return campus, nil
}

// OpenDays returns the open days hosted by one campus.
func (s *CampusService) OpenDays(ctx context.Context, id int64) ([]models.OpenDayDetail, error) {
	exists, err := s.campuses.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check campus: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	openDays, err := s.openDays.List(ctx, models.OpenDayFilters{CampusID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list campus open days: %w", err)
	}
	return openDays, nil
}
