package repository

import (
	"context"
	"database/sql"

	"jpo/internal/database"
	apperrors "jpo/internal/errors"
	"jpo/internal/models"

	"github.com/lib/pq"
)

type RoleRepository struct {
	db *database.DB
}

func NewRoleRepository(db *database.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context, search string) ([]models.RoleSummary, error) {
	query := `
		SELECT
			ro.role_id,
			ro.role_name,
			COUNT(u.user_id),
			COUNT(u.user_id) FILTER (WHERE u.created_at >= NOW() - INTERVAL '30 days')
		FROM role ro
		LEFT JOIN users u ON ro.role_id = u.role_id`

	var args []any
	if search != "" {
		query += " WHERE ro.role_name ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	query += " GROUP BY ro.role_id, ro.role_name ORDER BY ro.role_name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.RoleSummary
	for rows.Next() {
		var role models.RoleSummary
		if err := rows.Scan(&role.RoleID, &role.RoleName, &role.UsersCount, &role.NewUsersCount); err != nil {
			return nil, err
		}
		result = append(result, role)
	}

	return result, rows.Err()
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*models.RoleSummary, error) {
	role := &models.RoleSummary{}
	query := `
		SELECT
			ro.role_id,
			ro.role_name,
			COUNT(u.user_id),
			COUNT(u.user_id) FILTER (WHERE u.created_at >= NOW() - INTERVAL '30 days')
		FROM role ro
		LEFT JOIN users u ON ro.role_id = u.role_id
		WHERE ro.role_id = $1
		GROUP BY ro.role_id, ro.role_name`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&role.RoleID, &role.RoleName, &role.UsersCount, &role.NewUsersCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return role, err
}

// Create inserts a role; the unique constraint on role_name surfaces as
// ErrRoleNameTaken.
func (r *RoleRepository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO role (role_name) VALUES ($1) RETURNING role_id`, name).Scan(&id)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return 0, apperrors.ErrRoleNameTaken
	}

	return id, err
}

// Update renames a role. Returns false when the id is unknown.
func (r *RoleRepository) Update(ctx context.Context, id int64, name string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE role SET role_name = $1 WHERE role_id = $2`, name, id)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return false, apperrors.ErrRoleNameTaken
	}
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Delete removes a role, refusing while users still carry it.
func (r *RoleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var users int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role_id = $1`, id).Scan(&users)
	if err != nil {
		return false, err
	}
	if users > 0 {
		return false, apperrors.ErrRoleInUse
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM role WHERE role_id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}
