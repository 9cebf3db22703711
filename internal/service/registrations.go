package service

import (
	"context"
	"fmt"
	"time"

	"jpo/internal/cache"
	apperrors "jpo/internal/errors"
	"jpo/internal/logger"
	"jpo/internal/metrics"
	"jpo/internal/models"
)

// RegistrationStore is the persistence surface the admission controller
// needs. Implemented by repository.RegistrationRepository.
type RegistrationStore interface {
	List(ctx context.Context, filters models.RegistrationFilters) ([]models.RegistrationDetail, error)
	GetByID(ctx context.Context, id int64) (*models.RegistrationDetail, error)
	GetRow(ctx context.Context, id int64) (*models.Registration, error)
	Create(ctx context.Context, reg *models.Registration) error
	Cancel(ctx context.Context, id int64) (bool, error)
	Reactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	IsUserRegistered(ctx context.Context, userID, jpoID int64) (bool, error)
	IsOpenDayFull(ctx context.Context, jpoID int64) (bool, error)
	Stats(ctx context.Context) (*models.RegistrationStats, error)
	StatsByOpenDay(ctx context.Context) ([]models.OpenDayStats, error)
}

// EventPublisher publishes domain events. Implemented by messaging.NATSClient.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// RegistrationService gates every state change that affects an open day's
// active registration count. The admission sequence runs under a per-open-day
// lock; the store's capacity-guarded statements back the same ceiling at the
// database level for multi-instance deployments.
type RegistrationService struct {
	store     RegistrationStore
	publisher EventPublisher
	valkey    *cache.ValkeyClient
	locks     *openDayLocks
}

func NewRegistrationService(store RegistrationStore, publisher EventPublisher, valkey *cache.ValkeyClient) *RegistrationService {
	return &RegistrationService{
		store:     store,
		publisher: publisher,
		valkey:    valkey,
		locks:     newOpenDayLocks(),
	}
}

func (s *RegistrationService) List(ctx context.Context, filters models.RegistrationFilters) ([]models.RegistrationDetail, error) {
	registrations, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}

func (s *RegistrationService) Get(ctx context.Context, id int64) (*models.RegistrationDetail, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	if reg == nil {
		return nil, apperrors.ErrNotFound
	}
	return reg, nil
}

// Create admits a new registration: duplicate check first, capacity check
// second, then the insert. The order matters - a user already registered on
// a full open day must hear "already registered", not "full".
func (s *RegistrationService) Create(ctx context.Context, req *models.CreateRegistrationRequest) (*models.RegistrationDetail, error) {
	unlock := s.locks.Lock(req.JpoID)
	defer unlock()

	registered, err := s.store.IsUserRegistered(ctx, req.UserID, req.JpoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if registered {
		metrics.RegistrationRejected("duplicate")
		return nil, apperrors.ErrAlreadyRegistered
	}

	full, err := s.store.IsOpenDayFull(ctx, req.JpoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open day capacity: %w", err)
	}
	if full {
		metrics.RegistrationRejected("full")
		return nil, apperrors.ErrOpenDayFull
	}

	status := req.Status
	if status == "" {
		status = models.StatusRegistered
	}

	registrationDate := time.Now()
	if req.RegistrationDate != nil {
		registrationDate = *req.RegistrationDate
	}

	reg := &models.Registration{
		UserID:           req.UserID,
		JpoID:            req.JpoID,
		RegistrationDate: registrationDate,
		Status:           status,
	}

	if err := s.store.Create(ctx, reg); err != nil {
		return nil, err
	}

	metrics.RegistrationAdmitted()
	s.publish(ctx, models.EventRegistrationCreated, models.RegistrationCreatedEvent{
		RegistrationID: reg.RegistrationID,
		UserID:         reg.UserID,
		JpoID:          reg.JpoID,
		Timestamp:      time.Now(),
	})
	s.invalidateOpenDays(ctx)

	return s.Get(ctx, reg.RegistrationID)
}

// UpdateStatus dispatches PUT /api/registrations/{id} to cancel or
// reactivate depending on the requested status.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id int64, status string) (*models.RegistrationDetail, error) {
	switch status {
	case models.StatusUnregistered:
		if err := s.Cancel(ctx, id); err != nil {
			return nil, err
		}
	case models.StatusRegistered:
		if err := s.Reactivate(ctx, id); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.ErrInvalidStatus
	}

	return s.Get(ctx, id)
}

// Cancel transitions the registration to unregistered. Cancellation only
// frees capacity, so there is no admission check.
func (s *RegistrationService) Cancel(ctx context.Context, id int64) error {
	row, err := s.store.GetRow(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get registration: %w", err)
	}
	if row == nil {
		return apperrors.ErrNotFound
	}

	ok, err := s.store.Cancel(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to cancel registration: %w", err)
	}
	if !ok {
		return apperrors.ErrNotFound
	}

	s.publish(ctx, models.EventRegistrationCancelled, models.RegistrationCancelledEvent{
		RegistrationID: id,
		JpoID:          row.JpoID,
		Timestamp:      time.Now(),
	})
	s.invalidateOpenDays(ctx)

	return nil
}

// Reactivate flips an unregistered row back to registered. It consumes a
// capacity slot, so it re-runs the capacity check, but not the duplicate
// check - the row already represents this user/open-day pair.
func (s *RegistrationService) Reactivate(ctx context.Context, id int64) error {
	row, err := s.store.GetRow(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get registration: %w", err)
	}
	if row == nil {
		return apperrors.ErrNotFound
	}
	if row.Status == models.StatusRegistered {
		return nil
	}

	unlock := s.locks.Lock(row.JpoID)
	defer unlock()

	full, err := s.store.IsOpenDayFull(ctx, row.JpoID)
	if err != nil {
		return fmt.Errorf("failed to check open day capacity: %w", err)
	}
	if full {
		metrics.RegistrationRejected("full")
		return apperrors.ErrOpenDayFull
	}

	if err := s.store.Reactivate(ctx, id); err != nil {
		return err
	}

	metrics.RegistrationAdmitted()
	s.publish(ctx, models.EventRegistrationReactivated, models.RegistrationReactivatedEvent{
		RegistrationID: id,
		JpoID:          row.JpoID,
		Timestamp:      time.Now(),
	})
	s.invalidateOpenDays(ctx)

	return nil
}

// Delete removes the row unconditionally. Administrative operation, distinct
// from cancellation.
func (s *RegistrationService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	if !ok {
		return apperrors.ErrNotFound
	}

	s.invalidateOpenDays(ctx)
	return nil
}

// IsUserRegistered reports whether the pair holds an active registration.
func (s *RegistrationService) IsUserRegistered(ctx context.Context, userID, jpoID int64) (bool, error) {
	return s.store.IsUserRegistered(ctx, userID, jpoID)
}

// IsOpenDayFull reports whether the open day has spare capacity. Unknown
// open days count as full.
func (s *RegistrationService) IsOpenDayFull(ctx context.Context, jpoID int64) (bool, error) {
	return s.store.IsOpenDayFull(ctx, jpoID)
}

func (s *RegistrationService) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration stats: %w", err)
	}
	return stats, nil
}

func (s *RegistrationService) StatsByOpenDay(ctx context.Context) ([]models.OpenDayStats, error) {
	stats, err := s.store.StatsByOpenDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get open day stats: %w", err)
	}
	return stats, nil
}

// publish sends a domain event; failures are logged, never fatal to the
// request.
func (s *RegistrationService) publish(ctx context.Context, subject string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"subject", subject)
	}
}

func (s *RegistrationService) invalidateOpenDays(ctx context.Context) {
	if s.valkey == nil {
		return
	}
	if err := s.valkey.InvalidateOpenDays(ctx); err != nil {
		logger.WithContext(ctx).Error("Failed to invalidate open day cache", "error", err)
	}
}
