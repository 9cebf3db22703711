package service

import (
	"context"
	"fmt"
	"time"

	apperrors "jpo/internal/errors"
	"jpo/internal/logger"
	"jpo/internal/models"
	"jpo/internal/repository"
)

type CommentService struct {
	comments  *repository.CommentRepository
	users     *repository.UserRepository
	openDays  *repository.OpenDayRepository
	publisher EventPublisher
}

func NewCommentService(
	comments *repository.CommentRepository,
	users *repository.UserRepository,
	openDays *repository.OpenDayRepository,
	publisher EventPublisher,
) *CommentService {
	return &CommentService{
		comments:  comments,
		users:     users,
		openDays:  openDays,
		publisher: publisher,
	}
}

func (s *CommentService) List(ctx context.Context, filters models.CommentFilters) ([]models.CommentDetail, error) {
	comments, err := s.comments.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, id int64) (*models.CommentDetail, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return nil, apperrors.ErrNotFound
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, req *models.CreateCommentRequest) (*models.CommentDetail, error) {
	userExists, err := s.users.Exists(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !userExists {
		return nil, fmt.Errorf("user %d: %w", req.UserID, apperrors.ErrNotFound)
	}

	od, err := s.openDays.GetRow(ctx, req.JpoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open day: %w", err)
	}
	if od == nil {
		return nil, apperrors.ErrOpenDayNotFound
	}

	comment := &models.Comment{
		Content: req.Content,
		UserID:  req.UserID,
		JpoID:   req.JpoID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.publisher != nil {
		err := s.publisher.Publish(models.EventCommentCreated, models.CommentCreatedEvent{
			CommentID: comment.CommentID,
			UserID:    comment.UserID,
			JpoID:     comment.JpoID,
			Timestamp: time.Now(),
		})
		if err != nil {
			logger.WithContext(ctx).Error("Failed to publish event",
				"error", err,
				"subject", models.EventCommentCreated)
		}
	}

	return s.Get(ctx, comment.CommentID)
}

func (s *CommentService) Update(ctx context.Context, id int64, req *models.UpdateCommentRequest) (*models.CommentDetail, error) {
	if req.Content == nil && req.ModeratorReply == nil {
		return s.Get(ctx, id)
	}

	ok, err := s.comments.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	return s.Get(ctx, id)
}

func (s *CommentService) Delete(ctx context.Context, id int64) error {
	ok, err := s.comments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if !ok {
		return apperrors.ErrNotFound
	}
	return nil
}
