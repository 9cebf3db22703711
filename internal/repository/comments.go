package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jpo/internal/database"
	"jpo/internal/models"
)

type CommentRepository struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentDetailSelect = `
	SELECT
		c.comment_id,
		c.content,
		c.comment_date,
		c.moderator_reply,
		c.reply_date,
		u.user_id,
		u.first_name,
		u.last_name,
		u.user_type,
		od.jpo_id,
		od.name,
		od.date
	FROM comment c
	JOIN users u ON c.user_id = u.user_id
	JOIN open_day od ON c.jpo_id = od.jpo_id`

// BuildCommentListQuery assembles the filtered comment list query.
func BuildCommentListQuery(filters models.CommentFilters) (string, []any) {
	query := commentDetailSelect

	var args []any
	var conditions []string

	if filters.UserID != nil {
		args = append(args, *filters.UserID)
		conditions = append(conditions, fmt.Sprintf("c.user_id = $%d", len(args)))
	}
	if filters.JpoID != nil {
		args = append(args, *filters.JpoID)
		conditions = append(conditions, fmt.Sprintf("c.jpo_id = $%d", len(args)))
	}
	if filters.HasReply != nil {
		if *filters.HasReply {
			conditions = append(conditions, "c.moderator_reply IS NOT NULL")
		} else {
			conditions = append(conditions, "c.moderator_reply IS NULL")
		}
	}
	if filters.DateFrom != "" {
		args = append(args, filters.DateFrom)
		conditions = append(conditions, fmt.Sprintf("DATE(c.comment_date) >= $%d", len(args)))
	}
	if filters.DateTo != "" {
		args = append(args, filters.DateTo)
		conditions = append(conditions, fmt.Sprintf("DATE(c.comment_date) <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}

	query += "\n\tORDER BY c.comment_date DESC"
	return query, args
}

func scanCommentRows(rows *sql.Rows) ([]models.CommentDetail, error) {
	var result []models.CommentDetail
	for rows.Next() {
		var c models.CommentDetail
		c.OpenDay = &models.RegistrationOpenDay{}
		err := rows.Scan(
			&c.ID,
			&c.Content,
			&c.CommentDate,
			&c.ModeratorReply,
			&c.ReplyDate,
			&c.User.ID,
			&c.User.FirstName,
			&c.User.LastName,
			&c.User.UserType,
			&c.OpenDay.ID,
			&c.OpenDay.Name,
			&c.OpenDay.Date,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *CommentRepository) List(ctx context.Context, filters models.CommentFilters) ([]models.CommentDetail, error) {
	query, args := BuildCommentListQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCommentRows(rows)
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.CommentDetail, error) {
	query := commentDetailSelect + "\n\tWHERE c.comment_id = $1"

	c := &models.CommentDetail{OpenDay: &models.RegistrationOpenDay{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Content,
		&c.CommentDate,
		&c.ModeratorReply,
		&c.ReplyDate,
		&c.User.ID,
		&c.User.FirstName,
		&c.User.LastName,
		&c.User.UserType,
		&c.OpenDay.ID,
		&c.OpenDay.Name,
		&c.OpenDay.Date,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return c, err
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comment (content, comment_date, user_id, jpo_id)
		VALUES ($1, NOW(), $2, $3)
		RETURNING comment_id, comment_date`

	return r.db.QueryRowContext(ctx, query,
		comment.Content, comment.UserID, comment.JpoID,
	).Scan(&comment.CommentID, &comment.CommentDate)
}

// Update changes the content and/or the moderator reply. A new reply stamps
// the reply date.
func (r *CommentRepository) Update(ctx context.Context, id int64, req *models.UpdateCommentRequest) (bool, error) {
	var sets []string
	var args []any

	if req.Content != nil {
		args = append(args, *req.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	if req.ModeratorReply != nil {
		args = append(args, *req.ModeratorReply)
		sets = append(sets, fmt.Sprintf("moderator_reply = $%d", len(args)))
		args = append(args, time.Now())
		sets = append(sets, fmt.Sprintf("reply_date = $%d", len(args)))
	}

	if len(sets) == 0 {
		return false, nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE comment SET %s WHERE comment_id = $%d",
		strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comment WHERE comment_id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// ListByOpenDay returns the comments of one open day, oldest first, for the
// open-day detail response.
func (r *CommentRepository) ListByOpenDay(ctx context.Context, jpoID int64) ([]models.CommentDetail, error) {
	query := `
		SELECT
			c.comment_id,
			c.content,
			c.comment_date,
			c.moderator_reply,
			c.reply_date,
			u.user_id,
			u.first_name,
			u.last_name,
			u.user_type
		FROM comment c
		JOIN users u ON c.user_id = u.user_id
		WHERE c.jpo_id = $1
		ORDER BY c.comment_date ASC`

	rows, err := r.db.QueryContext(ctx, query, jpoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.CommentDetail
	for rows.Next() {
		var c models.CommentDetail
		err := rows.Scan(
			&c.ID,
			&c.Content,
			&c.CommentDate,
			&c.ModeratorReply,
			&c.ReplyDate,
			&c.User.ID,
			&c.User.FirstName,
			&c.User.LastName,
			&c.User.UserType,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}

	return result, rows.Err()
}
