package consumers

import (
	"context"
	"encoding/json"
	"time"

	"jpo/internal/logger"
	"jpo/internal/models"

	"github.com/nats-io/stan.go"
)

// registrationEvent covers the common fields of all registration subjects.
type registrationEvent struct {
	RegistrationID int64     `json:"registration_id"`
	JpoID          int64     `json:"jpo_id"`
	Timestamp      time.Time `json:"timestamp"`
}

func (s *Service) handleRegistrationEvent(msg *stan.Msg) {
	var event registrationEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Get().Error("Failed to decode registration event",
			"error", err,
			"subject", msg.Subject)
		return
	}

	logger.Get().Info("Registration event",
		"subject", msg.Subject,
		"registration_id", event.RegistrationID,
		"jpo_id", event.JpoID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.refreshSnapshot(ctx, event.JpoID)

	if err := s.valkey.InvalidateOpenDays(ctx); err != nil {
		logger.Get().Error("Failed to invalidate open day cache", "error", err)
	}
}

func (s *Service) handleCommentCreated(msg *stan.Msg) {
	var event models.CommentCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Get().Error("Failed to decode comment event",
			"error", err,
			"subject", msg.Subject)
		return
	}

	logger.Get().Info("Comment created",
		"comment_id", event.CommentID,
		"jpo_id", event.JpoID,
		"user_id", event.UserID)
}

// refreshSnapshot recomputes one open day's active count from the database
// and writes it to the Valkey snapshot hash.
func (s *Service) refreshSnapshot(ctx context.Context, jpoID int64) {
	od, err := s.repos.OpenDays.GetByID(ctx, jpoID)
	if err != nil {
		logger.Get().Error("Failed to load open day for snapshot",
			"error", err,
			"jpo_id", jpoID)
		return
	}
	if od == nil {
		return
	}

	err = s.valkey.SetCapacitySnapshot(ctx, map[int64]int{jpoID: od.RegisteredCount})
	if err != nil {
		logger.Get().Error("Failed to write capacity snapshot",
			"error", err,
			"jpo_id", jpoID)
	}
}
