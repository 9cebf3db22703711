package repository

import (
	"testing"

	"jpo/internal/models"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestBuildListQueryNoFilters(t *testing.T) {
	query, args := BuildListQuery(models.RegistrationFilters{})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY r.registration_date DESC")
	assert.Empty(t, args)
}

func TestBuildListQueryAllFilters(t *testing.T) {
	query, args := BuildListQuery(models.RegistrationFilters{
		UserID:   int64Ptr(7),
		JpoID:    int64Ptr(3),
		Status:   "registered",
		UserType: "student",
		DateFrom: "2026-01-01",
		DateTo:   "2026-12-31",
	})

	assert.Contains(t, query, "r.user_id = $1")
	assert.Contains(t, query, "r.jpo_id = $2")
	assert.Contains(t, query, "r.status = $3")
	assert.Contains(t, query, "u.user_type = $4")
	assert.Contains(t, query, "DATE(r.registration_date) >= $5")
	assert.Contains(t, query, "DATE(r.registration_date) <= $6")
	assert.Equal(t, []any{int64(7), int64(3), "registered", "student", "2026-01-01", "2026-12-31"}, args)
}

func TestBuildOpenDayListQuerySearch(t *testing.T) {
	query, args := BuildOpenDayListQuery(models.OpenDayFilters{Search: "paris"})

	assert.Contains(t, query, "od.name ILIKE $1")
	assert.Contains(t, query, "c.city ILIKE $1")
	assert.Contains(t, query, "ORDER BY od.date ASC")
	assert.Equal(t, []any{"%paris%"}, args)
}

func TestBuildOpenDayListQueryDateRange(t *testing.T) {
	query, args := BuildOpenDayListQuery(models.OpenDayFilters{
		CampusID: int64Ptr(2),
		DateFrom: "2026-09-01",
		DateTo:   "2026-09-30",
	})

	assert.Contains(t, query, "od.campus_id = $1")
	assert.Contains(t, query, "od.date >= $2")
	assert.Contains(t, query, "od.date <= $3")
	assert.Len(t, args, 3)
}

func TestBuildCampusListQuery(t *testing.T) {
	query, args := BuildCampusListQuery(models.CampusFilters{City: "Lyon", Search: "conf"})

	assert.Contains(t, query, "c.city = $1")
	assert.Contains(t, query, "c.name ILIKE $2")
	assert.Equal(t, []any{"Lyon", "%conf%"}, args)
}

func TestBuildUserListQuery(t *testing.T) {
	query, args := BuildUserListQuery(models.UserFilters{
		UserType: "parent",
		RoleID:   int64Ptr(1),
		Search:   "mar",
	})

	assert.Contains(t, query, "u.user_type = $1")
	assert.Contains(t, query, "u.role_id = $2")
	assert.Contains(t, query, "u.first_name ILIKE $3")
	assert.Contains(t, query, "ORDER BY u.created_at DESC")
	assert.Equal(t, []any{"parent", int64(1), "%mar%"}, args)
}

func TestBuildCommentListQueryHasReply(t *testing.T) {
	query, args := BuildCommentListQuery(models.CommentFilters{HasReply: boolPtr(true)})
	assert.Contains(t, query, "c.moderator_reply IS NOT NULL")
	assert.Empty(t, args)

	query, args = BuildCommentListQuery(models.CommentFilters{HasReply: boolPtr(false)})
	assert.Contains(t, query, "c.moderator_reply IS NULL")
	assert.Empty(t, args)
}

func TestBuildCommentListQueryOrdering(t *testing.T) {
	query, _ := BuildCommentListQuery(models.CommentFilters{UserID: int64Ptr(9)})

	assert.Contains(t, query, "c.user_id = $1")
	assert.Contains(t, query, "ORDER BY c.comment_date DESC")
}
