package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"jpo/internal/database"
	"jpo/internal/models"

	"github.com/lib/pq"
)

type OpenDayRepository struct {
	db *database.DB
}

func NewOpenDayRepository(db *database.DB) *OpenDayRepository {
	return &OpenDayRepository{db: db}
}

const openDayListSelect = `
	SELECT
		od.jpo_id,
		od.name,
		od.date,
		od.max_capacity,
		c.campus_id,
		c.name,
		c.city,
		COUNT(DISTINCT r.registration_id),
		COUNT(DISTINCT com.comment_id)
	FROM open_day od
	JOIN campus c ON od.campus_id = c.campus_id
	LEFT JOIN registration r ON od.jpo_id = r.jpo_id AND r.status = 'registered'
	LEFT JOIN comment com ON od.jpo_id = com.jpo_id`

// BuildOpenDayListQuery assembles the filtered open-day list query.
func BuildOpenDayListQuery(filters models.OpenDayFilters) (string, []any) {
	query := openDayListSelect

	var args []any
	var conditions []string

	if filters.CampusID != nil {
		args = append(args, *filters.CampusID)
		conditions = append(conditions, fmt.Sprintf("od.campus_id = $%d", len(args)))
	}
	if filters.DateFrom != "" {
		args = append(args, filters.DateFrom)
		conditions = append(conditions, fmt.Sprintf("od.date >= $%d", len(args)))
	}
	if filters.DateTo != "" {
		args = append(args, filters.DateTo)
		conditions = append(conditions, fmt.Sprintf("od.date <= $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(od.name ILIKE $%d OR c.name ILIKE $%d OR c.city ILIKE $%d)", n, n, n))
	}

	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}

	query += "\n\tGROUP BY od.jpo_id, od.name, od.date, od.max_capacity, c.campus_id, c.name, c.city"
	query += "\n\tORDER BY od.date ASC"
	return query, args
}

func (r *OpenDayRepository) scanList(rows *sql.Rows) ([]models.OpenDayDetail, error) {
	var result []models.OpenDayDetail
	for rows.Next() {
		var od models.OpenDayDetail
		err := rows.Scan(
			&od.JpoID,
			&od.Name,
			&od.Date,
			&od.MaxCapacity,
			&od.Campus.ID,
			&od.Campus.Name,
			&od.Campus.City,
			&od.RegisteredCount,
			&od.CommentsCount,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, od)
	}
	return result, rows.Err()
}

func (r *OpenDayRepository) List(ctx context.Context, filters models.OpenDayFilters) ([]models.OpenDayDetail, error) {
	query, args := BuildOpenDayListQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanList(rows)
}

// ListByIDs returns the detail rows for a set of ids, preserving date order.
// Used to hydrate Elasticsearch search hits.
func (r *OpenDayRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.OpenDayDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := openDayListSelect + `
	WHERE od.jpo_id = ANY($1)
	GROUP BY od.jpo_id, od.name, od.date, od.max_capacity, c.campus_id, c.name, c.city
	ORDER BY od.date ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanList(rows)
}

func (r *OpenDayRepository) GetByID(ctx context.Context, id int64) (*models.OpenDayDetail, error) {
	query := openDayListSelect + `
	WHERE od.jpo_id = $1
	GROUP BY od.jpo_id, od.name, od.date, od.max_capacity, c.campus_id, c.name, c.city`

	od := &models.OpenDayDetail{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&od.JpoID,
		&od.Name,
		&od.Date,
		&od.MaxCapacity,
		&od.Campus.ID,
		&od.Campus.Name,
		&od.Campus.City,
		&od.RegisteredCount,
		&od.CommentsCount,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return od, err
}

// GetRow returns the bare open_day row, or nil when absent.
func (r *OpenDayRepository) GetRow(ctx context.Context, id int64) (*models.OpenDay, error) {
	od := &models.OpenDay{}
	query := `
		SELECT jpo_id, name, date, max_capacity, campus_id
		FROM open_day
		WHERE jpo_id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&od.JpoID, &od.Name, &od.Date, &od.MaxCapacity, &od.CampusID)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return od, err
}

func (r *OpenDayRepository) Create(ctx context.Context, od *models.OpenDay) error {
	query := `
		INSERT INTO open_day (name, date, max_capacity, campus_id)
		VALUES ($1, $2, $3, $4)
		RETURNING jpo_id`

	return r.db.QueryRowContext(ctx, query,
		od.Name, od.Date, od.MaxCapacity, od.CampusID).Scan(&od.JpoID)
}

func (r *OpenDayRepository) Update(ctx context.Context, od *models.OpenDay) (bool, error) {
	query := `
		UPDATE open_day
		SET name = $1, date = $2, max_capacity = $3, campus_id = $4
		WHERE jpo_id = $5`

	result, err := r.db.ExecContext(ctx, query,
		od.Name, od.Date, od.MaxCapacity, od.CampusID, od.JpoID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Delete removes the open day; registrations and comments cascade.
func (r *OpenDayRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM open_day WHERE jpo_id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}
