package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"jpo/internal/database"
	"jpo/internal/models"
)

type CampusRepository struct {
	db *database.DB
}

func NewCampusRepository(db *database.DB) *CampusRepository {
	return &CampusRepository{db: db}
}

// BuildCampusListQuery assembles the filtered campus list query.
func BuildCampusListQuery(filters models.CampusFilters) (string, []any) {
	query := `
	SELECT
		c.campus_id,
		c.name,
		c.city,
		COUNT(DISTINCT od.jpo_id),
		COUNT(DISTINCT od.jpo_id) FILTER (WHERE od.date >= CURRENT_DATE),
		COUNT(DISTINCT r.registration_id)
	FROM campus c
	LEFT JOIN open_day od ON c.campus_id = od.campus_id
	LEFT JOIN registration r ON od.jpo_id = r.jpo_id AND r.status = 'registered'`

	var args []any
	var conditions []string

	if filters.City != "" {
		args = append(args, filters.City)
		conditions = append(conditions, fmt.Sprintf("c.city = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR c.city ILIKE $%d)", n, n))
	}

	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}

	query += "\n\tGROUP BY c.campus_id, c.name, c.city\n\tORDER BY c.name ASC"
	return query, args
}

func (r *CampusRepository) List(ctx context.Context, filters models.CampusFilters) ([]models.CampusSummary, error) {
	query, args := BuildCampusListQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.CampusSummary
	for rows.Next() {
		var c models.CampusSummary
		err := rows.Scan(
			&c.CampusID,
			&c.Name,
			&c.City,
			&c.JpoCount,
			&c.UpcomingJpoCount,
			&c.TotalRegistrations,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}

	return result, rows.Err()
}

func (r *CampusRepository) GetByID(ctx context.Context, id int64) (*models.CampusSummary, error) {
	c := &models.CampusSummary{}
	query := `
		SELECT
			c.campus_id,
			c.name,
			c.city,
			COUNT(DISTINCT od.jpo_id),
			COUNT(DISTINCT od.jpo_id) FILTER (WHERE od.date >= CURRENT_DATE),
			COUNT(DISTINCT r.registration_id)
		FROM campus c
		LEFT JOIN open_day od ON c.campus_id = od.campus_id
		LEFT JOIN registration r ON od.jpo_id = r.jpo_id AND r.status = 'registered'
		WHERE c.campus_id = $1
		GROUP BY c.campus_id, c.name, c.city`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.CampusID,
		&c.Name,
		&c.City,
		&c.JpoCount,
		&c.UpcomingJpoCount,
		&c.TotalRegistrations,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return c, err
}

func (r *CampusRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campus WHERE campus_id = $1`, id).Scan(&count)
	return count > 0, err
}
