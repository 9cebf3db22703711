package service

import (
	"context"
	"fmt"
	"time"

	"jpo/internal/cache"
	apperrors "jpo/internal/errors"
	"jpo/internal/logger"
	"jpo/internal/models"
	"jpo/internal/repository"
	"jpo/internal/search"
)

// OpenDayService manages open days, keeps the search index in sync and
// invalidates the cached list on every mutation.
type OpenDayService struct {
	openDays *repository.OpenDayRepository
	campuses *repository.CampusRepository
	comments *repository.CommentRepository
	es       *search.ElasticsearchClient
	valkey   *cache.ValkeyClient
}

func NewOpenDayService(
	openDays *repository.OpenDayRepository,
	campuses *repository.CampusRepository,
	comments *repository.CommentRepository,
	es *search.ElasticsearchClient,
	valkey *cache.ValkeyClient,
) *OpenDayService {
	return &OpenDayService{
		openDays: openDays,
		campuses: campuses,
		comments: comments,
		es:       es,
		valkey:   valkey,
	}
}

// List returns open days matching the filters. Pure text searches go
// through Elasticsearch when it is configured; any ES failure falls back to
// the SQL ILIKE path so search keeps working without the cluster.
func (s *OpenDayService) List(ctx context.Context, filters models.OpenDayFilters) ([]models.OpenDayDetail, error) {
	if s.es != nil && filters.Search != "" &&
		filters.CampusID == nil && filters.DateFrom == "" && filters.DateTo == "" {
		ids, err := s.es.SearchIDs(ctx, filters.Search)
		if err == nil {
			return s.openDays.ListByIDs(ctx, ids)
		}
		logger.WithContext(ctx).Error("Elasticsearch search failed, falling back to SQL",
			"error", err,
			"query", filters.Search)
	}

	openDays, err := s.openDays.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list open days: %w", err)
	}
	return openDays, nil
}

// Get returns one open day with its comments.
func (s *OpenDayService) Get(ctx context.Context, id int64) (*models.OpenDayDetail, error) {
	od, err := s.openDays.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get open day: %w", err)
	}
	if od == nil {
		return nil, apperrors.ErrOpenDayNotFound
	}

	comments, err := s.comments.ListByOpenDay(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get open day comments: %w", err)
	}
	od.Comments = comments

	return od, nil
}

func (s *OpenDayService) Create(ctx context.Context, req *models.CreateOpenDayRequest) (*models.OpenDayDetail, error) {
	exists, err := s.campuses.Exists(ctx, req.CampusID)
	if err != nil {
		return nil, fmt.Errorf("failed to check campus: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("campus %d: %w", req.CampusID, apperrors.ErrNotFound)
	}

	od := &models.OpenDay{
		Name:        req.Name,
		Date:        req.Date,
		MaxCapacity: req.MaxCapacity,
		CampusID:    req.CampusID,
	}
	if err := s.openDays.Create(ctx, od); err != nil {
		return nil, fmt.Errorf("failed to create open day: %w", err)
	}

	detail, err := s.openDays.GetByID(ctx, od.JpoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open day: %w", err)
	}

	s.index(ctx, detail)
	s.invalidate(ctx)

	return detail, nil
}

func (s *OpenDayService) Update(ctx context.Context, id int64, req *models.UpdateOpenDayRequest) (*models.OpenDayDetail, error) {
	od, err := s.openDays.GetRow(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get open day: %w", err)
	}
	if od == nil {
		return nil, apperrors.ErrOpenDayNotFound
	}

	if req.Name != nil {
		od.Name = *req.Name
	}
	if req.Date != nil {
		od.Date = *req.Date
	}
	if req.MaxCapacity != nil {
		od.MaxCapacity = *req.MaxCapacity
	}
	if req.CampusID != nil {
		exists, err := s.campuses.Exists(ctx, *req.CampusID)
		if err != nil {
			return nil, fmt.Errorf("failed to check campus: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("campus %d: %w", *req.CampusID, apperrors.ErrNotFound)
		}
		od.CampusID = *req.CampusID
	}

	ok, err := s.openDays.Update(ctx, od)
	if err != nil {
		return nil, fmt.Errorf("failed to update open day: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrOpenDayNotFound
	}

	detail, err := s.openDays.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get open day: %w", err)
	}

	s.index(ctx, detail)
	s.invalidate(ctx)

	return detail, nil
}

func (s *OpenDayService) Delete(ctx context.Context, id int64) error {
	ok, err := s.openDays.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete open day: %w", err)
	}
	if !ok {
		return apperrors.ErrOpenDayNotFound
	}

	if s.es != nil {
		if err := s.es.DeleteOpenDay(ctx, id); err != nil {
			logger.WithContext(ctx).Error("Failed to remove open day from index",
				"error", err,
				"jpo_id", id)
		}
	}
	s.invalidate(ctx)

	return nil
}

// Reindex pushes every open day into the search index. Used by the
// sync-index command.
func (s *OpenDayService) Reindex(ctx context.Context) (int, error) {
	if s.es == nil {
		return 0, fmt.Errorf("elasticsearch is not configured")
	}

	openDays, err := s.openDays.List(ctx, models.OpenDayFilters{})
	if err != nil {
		return 0, fmt.Errorf("failed to list open days: %w", err)
	}

	indexed := 0
	for i := range openDays {
		if err := s.es.IndexOpenDay(ctx, search.DocFromOpenDay(&openDays[i])); err != nil {
			return indexed, fmt.Errorf("failed to index open day %d: %w", openDays[i].JpoID, err)
		}
		indexed++
	}

	return indexed, nil
}

// ActiveCounts returns the active registration count per open day for the
// capacity snapshot job.
func (s *OpenDayService) ActiveCounts(ctx context.Context) (map[int64]int, error) {
	openDays, err := s.openDays.List(ctx, models.OpenDayFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list open days: %w", err)
	}

	counts := make(map[int64]int, len(openDays))
	for _, od := range openDays {
		counts[od.JpoID] = od.RegisteredCount
	}
	return counts, nil
}

func (s *OpenDayService) index(ctx context.Context, detail *models.OpenDayDetail) {
	if s.es == nil || detail == nil {
		return
	}
	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.es.IndexOpenDay(indexCtx, search.DocFromOpenDay(detail)); err != nil {
		logger.WithContext(ctx).Error("Failed to index open day",
			"error", err,
			"jpo_id", detail.JpoID)
	}
}

func (s *OpenDayService) invalidate(ctx context.Context) {
	if s.valkey == nil {
		return
	}
	if err := s.valkey.InvalidateOpenDays(ctx); err != nil {
		logger.WithContext(ctx).Error("Failed to invalidate open day cache", "error", err)
	}
}
