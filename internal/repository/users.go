package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"jpo/internal/database"
	"jpo/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSummarySelect = `
	SELECT
		u.user_id,
		u.first_name,
		u.last_name,
		u.email,
		u.user_type,
		u.created_at,
		u.role_id,
		ro.role_name,
		COUNT(DISTINCT reg.registration_id),
		COUNT(DISTINCT c.comment_id)
	FROM users u
	LEFT JOIN role ro ON u.role_id = ro.role_id
	LEFT JOIN registration reg ON u.user_id = reg.user_id AND reg.status = 'registered'
	LEFT JOIN comment c ON u.user_id = c.user_id`

const userSummaryGroupBy = `
	GROUP BY u.user_id, u.first_name, u.last_name, u.email, u.user_type, u.created_at, u.role_id, ro.role_name`

// BuildUserListQuery assembles the filtered user list query.
func BuildUserListQuery(filters models.UserFilters) (string, []any) {
	query := userSummarySelect

	var args []any
	var conditions []string

	if filters.UserType != "" {
		args = append(args, filters.UserType)
		conditions = append(conditions, fmt.Sprintf("u.user_type = $%d", len(args)))
	}
	if filters.RoleID != nil {
		args = append(args, *filters.RoleID)
		conditions = append(conditions, fmt.Sprintf("u.role_id = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)", n, n, n))
	}
	if filters.CreatedFrom != "" {
		args = append(args, filters.CreatedFrom)
		conditions = append(conditions, fmt.Sprintf("DATE(u.created_at) >= $%d", len(args)))
	}
	if filters.CreatedTo != "" {
		args = append(args, filters.CreatedTo)
		conditions = append(conditions, fmt.Sprintf("DATE(u.created_at) <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}

	query += userSummaryGroupBy + "\n\tORDER BY u.created_at DESC"
	return query, args
}

func (r *UserRepository) List(ctx context.Context, filters models.UserFilters) ([]models.UserSummary, error) {
	query, args := BuildUserListQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		err := rows.Scan(
			&u.UserID,
			&u.FirstName,
			&u.LastName,
			&u.Email,
			&u.UserType,
			&u.CreatedAt,
			&u.RoleID,
			&u.RoleName,
			&u.RegistrationsCount,
			&u.CommentsCount,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}

	return result, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.UserSummary, error) {
	u := &models.UserSummary{}
	query := userSummarySelect + "\n\tWHERE u.user_id = $1" + userSummaryGroupBy

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.UserID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.UserType,
		&u.CreatedAt,
		&u.RoleID,
		&u.RoleName,
		&u.RegistrationsCount,
		&u.CommentsCount,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return u, err
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE user_id = $1`, id).Scan(&count)
	return count > 0, err
}
