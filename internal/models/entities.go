package models

import "time"

// Registration statuses.
const (
	StatusRegistered   = "registered"
	StatusUnregistered = "unregistered"
)

// User types accepted by the platform.
const (
	UserTypeStudent         = "student"
	UserTypeParent          = "parent"
	UserTypeMarketingMember = "marketing_member"
)

// Campus represents a school campus hosting open days.
type Campus struct {
	CampusID int64  `json:"campus_id" db:"campus_id"`
	Name     string `json:"name" db:"name"`
	City     string `json:"city" db:"city"`
}

// Role represents a user role.
type Role struct {
	RoleID   int64  `json:"role_id" db:"role_id"`
	RoleName string `json:"role_name" db:"role_name"`
}

// User represents a registered person (student, parent or marketing member).
type User struct {
	UserID    int64     `json:"user_id" db:"user_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	UserType  string    `json:"user_type" db:"user_type"`
	RoleID    *int64    `json:"role_id" db:"role_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OpenDay represents a scheduled open-house day (JPO) at a campus.
type OpenDay struct {
	JpoID       int64     `json:"jpo_id" db:"jpo_id"`
	Name        string    `json:"name" db:"name"`
	Date        time.Time `json:"date" db:"date"`
	MaxCapacity int       `json:"max_capacity" db:"max_capacity"`
	CampusID    int64     `json:"campus_id" db:"campus_id"`
}

// Registration links a user to an open day. Cancellation is a status
// transition, never a row deletion.
type Registration struct {
	RegistrationID   int64     `json:"registration_id" db:"registration_id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	JpoID            int64     `json:"jpo_id" db:"jpo_id"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
	Status           string    `json:"status" db:"status"`
}

// Comment represents a visitor comment on an open day, optionally answered
// by a moderator.
type Comment struct {
	CommentID      int64      `json:"comment_id" db:"comment_id"`
	Content        string     `json:"content" db:"content"`
	CommentDate    time.Time  `json:"comment_date" db:"comment_date"`
	ModeratorReply *string    `json:"moderator_reply" db:"moderator_reply"`
	ReplyDate      *time.Time `json:"reply_date" db:"reply_date"`
	UserID         int64      `json:"user_id" db:"user_id"`
	JpoID          int64      `json:"jpo_id" db:"jpo_id"`
}
