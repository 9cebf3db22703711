package models

import "time"

// Request / response shapes of the public API. The nested list and detail
// formats follow what the frontend already consumes.

// CreateRegistrationRequest - body of POST /api/registrations.
type CreateRegistrationRequest struct {
	UserID           int64      `json:"user_id" binding:"required,gt=0"`
	JpoID            int64      `json:"jpo_id" binding:"required,gt=0"`
	Status           string     `json:"status,omitempty" binding:"omitempty,oneof=registered unregistered"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
}

// UpdateRegistrationRequest - body of PUT /api/registrations/{id}. Only the
// status can change after creation.
type UpdateRegistrationRequest struct {
	Status string `json:"status" binding:"required,oneof=registered unregistered"`
}

// RegistrationUser is the user block nested in registration responses.
type RegistrationUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	UserType  string `json:"user_type"`
}

// RegistrationOpenDay is the jpo block nested in registration responses.
type RegistrationOpenDay struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Date   time.Time    `json:"date"`
	Campus *CampusBrief `json:"campus,omitempty"`
}

// CampusBrief is the campus block nested in detail responses.
type CampusBrief struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// RegistrationDetail is a registration joined with its user, open day and
// campus, as returned by list and detail endpoints.
type RegistrationDetail struct {
	ID               int64               `json:"id"`
	RegistrationDate time.Time           `json:"registration_date"`
	Status           string              `json:"status"`
	User             RegistrationUser    `json:"user"`
	OpenDay          RegistrationOpenDay `json:"jpo"`
}

// RegistrationFilters are the query parameters of GET /api/registrations.
type RegistrationFilters struct {
	UserID   *int64
	JpoID    *int64
	Status   string
	UserType string
	DateFrom string
	DateTo   string
}

// CreateOpenDayRequest - body of POST /api/jpo.
type CreateOpenDayRequest struct {
	Name        string    `json:"name" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	MaxCapacity int       `json:"max_capacity" binding:"required,gt=0"`
	CampusID    int64     `json:"campus_id" binding:"required,gt=0"`
}

// UpdateOpenDayRequest - body of PUT /api/jpo/{id}. All fields optional.
type UpdateOpenDayRequest struct {
	Name        *string    `json:"name,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	MaxCapacity *int       `json:"max_capacity,omitempty" binding:"omitempty,gt=0"`
	CampusID    *int64     `json:"campus_id,omitempty" binding:"omitempty,gt=0"`
}

// OpenDayDetail is an open day joined with campus and activity counters.
type OpenDayDetail struct {
	JpoID           int64           `json:"jpo_id"`
	Name            string          `json:"name"`
	Date            time.Time       `json:"date"`
	MaxCapacity     int             `json:"max_capacity"`
	Campus          CampusBrief     `json:"campus"`
	RegisteredCount int             `json:"registered_count"`
	CommentsCount   int             `json:"comments_count"`
	Comments        []CommentDetail `json:"comments,omitempty"`
}

// OpenDayFilters are the query parameters of GET /api/jpo.
type OpenDayFilters struct {
	CampusID *int64
	DateFrom string
	DateTo   string
	Search   string
}

// CampusSummary is a campus with aggregate open-day counters.
type CampusSummary struct {
	CampusID           int64  `json:"campus_id"`
	Name               string `json:"name"`
	City               string `json:"city"`
	JpoCount           int    `json:"jpo_count"`
	UpcomingJpoCount   int    `json:"upcoming_jpo_count"`
	TotalRegistrations int    `json:"total_registrations"`
}

// CampusFilters are the query parameters of GET /api/campus.
type CampusFilters struct {
	City   string
	Search string
}

// UserSummary is a user with role name and activity counters.
type UserSummary struct {
	UserID             int64     `json:"user_id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	UserType           string    `json:"user_type"`
	CreatedAt          time.Time `json:"created_at"`
	RoleID             *int64    `json:"role_id"`
	RoleName           *string   `json:"role_name"`
	RegistrationsCount int       `json:"registrations_count"`
	CommentsCount      int       `json:"comments_count"`
}

// UserFilters are the query parameters of GET /api/users.
type UserFilters struct {
	UserType    string
	RoleID      *int64
	Search      string
	CreatedFrom string
	CreatedTo   string
}

// CreateCommentRequest - body of POST /api/comments.
type CreateCommentRequest struct {
	UserID  int64  `json:"user_id" binding:"required,gt=0"`
	JpoID   int64  `json:"jpo_id" binding:"required,gt=0"`
	Content string `json:"content" binding:"required"`
}

// UpdateCommentRequest - body of PUT /api/comments/{id}. Setting
// ModeratorReply stamps the reply date.
type UpdateCommentRequest struct {
	Content        *string `json:"content,omitempty"`
	ModeratorReply *string `json:"moderator_reply,omitempty"`
}

// CommentUser is the author block nested in comment responses.
type CommentUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

// CommentDetail is a comment joined with its author and open day.
type CommentDetail struct {
	ID             int64                `json:"id"`
	Content        string               `json:"content"`
	CommentDate    time.Time            `json:"comment_date"`
	ModeratorReply *string              `json:"moderator_reply"`
	ReplyDate      *time.Time           `json:"reply_date"`
	User           CommentUser          `json:"user"`
	OpenDay        *RegistrationOpenDay `json:"jpo,omitempty"`
}

// CommentFilters are the query parameters of GET /api/comments.
type CommentFilters struct {
	UserID   *int64
	JpoID    *int64
	HasReply *bool
	DateFrom string
	DateTo   string
}

// CreateRoleRequest - body of POST /api/roles.
type CreateRoleRequest struct {
	RoleName string `json:"role_name" binding:"required"`
}

// UpdateRoleRequest - body of PUT /api/roles/{id}.
type UpdateRoleRequest struct {
	RoleName string `json:"role_name" binding:"required"`
}

// RoleUsers is the response of GET /api/roles/{id}/users.
type RoleUsers struct {
	RoleID int64         `json:"role_id"`
	Users  []UserSummary `json:"users"`
	Count  int           `json:"count"`
}

// ReplyCommentRequest - body of POST /api/comments/{id}/reply.
type ReplyCommentRequest struct {
	ModeratorReply string `json:"moderator_reply" binding:"required"`
}

// RoleSummary is a role with user counters.
type RoleSummary struct {
	RoleID        int64  `json:"role_id"`
	RoleName      string `json:"role_name"`
	UsersCount    int    `json:"users_count"`
	NewUsersCount int    `json:"new_users_count"`
}

// RegistrationStats are the global registration counters.
type RegistrationStats struct {
	TotalRegistrations     int `json:"total_registrations"`
	ActiveRegistrations    int `json:"active_registrations"`
	CancelledRegistrations int `json:"cancelled_registrations"`
	UniqueUsers            int `json:"unique_users"`
	OpenDaysWithActivity   int `json:"jpo_with_registrations"`
}

// OpenDayStats is the per-open-day fill rate report.
type OpenDayStats struct {
	JpoID             int64   `json:"jpo_id"`
	Name              string  `json:"jpo_name"`
	MaxCapacity       int     `json:"max_capacity"`
	RegistrationCount int     `json:"registration_count"`
	AvailableSpots    int     `json:"available_spots"`
	FillRate          float64 `json:"fill_rate"`
}
