package models

import "time"

// NATS subjects.
const (
	EventRegistrationCreated     = "registration.created"
	EventRegistrationCancelled   = "registration.cancelled"
	EventRegistrationReactivated = "registration.reactivated"
	EventCommentCreated          = "comment.created"
)

// RegistrationCreatedEvent is published after an admitted registration.
type RegistrationCreatedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	UserID         int64     `json:"user_id"`
	JpoID          int64     `json:"jpo_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// RegistrationCancelledEvent is published after a cancellation.
type RegistrationCancelledEvent struct {
	RegistrationID int64     `json:"registration_id"`
	JpoID          int64     `json:"jpo_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// RegistrationReactivatedEvent is published after a reactivation.
type RegistrationReactivatedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	JpoID          int64     `json:"jpo_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// CommentCreatedEvent is published after a new comment.
type CommentCreatedEvent struct {
	CommentID int64     `json:"comment_id"`
	UserID    int64     `json:"user_id"`
	JpoID     int64     `json:"jpo_id"`
	Timestamp time.Time `json:"timestamp"`
}
