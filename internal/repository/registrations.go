package repository

import (
	"context"
	"database/sql"
	"fmt"

	"jpo/internal/database"
	apperrors "jpo/internal/errors"
	"jpo/internal/models"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type RegistrationRepository struct {
	db *database.DB
}

func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationDetailColumns = `
	r.registration_id, r.registration_date, r.status,
	u.user_id, u.first_name, u.last_name, u.email, u.user_type,
	od.jpo_id, od.name, od.date`

// BuildListQuery assembles the filtered list query. Split out so the filter
// combinations can be tested without a database.
func BuildListQuery(filters models.RegistrationFilters) (string, []any) {
	query := `
		SELECT` + registrationDetailColumns + `
		FROM registration r
		JOIN users u ON r.user_id = u.user_id
		JOIN open_day od ON r.jpo_id = od.jpo_id`

	var args []any
	var conditions []string

	if filters.UserID != nil {
		args = append(args, *filters.UserID)
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if filters.JpoID != nil {
		args = append(args, *filters.JpoID)
		conditions = append(conditions, fmt.Sprintf("r.jpo_id = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filters.UserType != "" {
		args = append(args, filters.UserType)
		conditions = append(conditions, fmt.Sprintf("u.user_type = $%d", len(args)))
	}
	if filters.DateFrom != "" {
		args = append(args, filters.DateFrom)
		conditions = append(conditions, fmt.Sprintf("DATE(r.registration_date) >= $%d", len(args)))
	}
	if filters.DateTo != "" {
		args = append(args, filters.DateTo)
		conditions = append(conditions, fmt.Sprintf("DATE(r.registration_date) <= $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += "\n\t\tWHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += "\n\t\tORDER BY r.registration_date DESC"
	return query, args
}

func (r *RegistrationRepository) List(ctx context.Context, filters models.RegistrationFilters) ([]models.RegistrationDetail, error) {
	query, args := BuildListQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.RegistrationDetail
	for rows.Next() {
		var reg models.RegistrationDetail
		err := rows.Scan(
			&reg.ID,
			&reg.RegistrationDate,
			&reg.Status,
			&reg.User.ID,
			&reg.User.FirstName,
			&reg.User.LastName,
			&reg.User.Email,
			&reg.User.UserType,
			&reg.OpenDay.ID,
			&reg.OpenDay.Name,
			&reg.OpenDay.Date,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, reg)
	}

	return result, rows.Err()
}

// GetByID returns a registration joined with user, open day and campus, or
// nil when the id is unknown.
func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.RegistrationDetail, error) {
	detail := &models.RegistrationDetail{OpenDay: models.RegistrationOpenDay{Campus: &models.CampusBrief{}}}
	query := `
		SELECT` + registrationDetailColumns + `,
		       c.campus_id, c.name, c.city
		FROM registration r
		JOIN users u ON r.user_id = u.user_id
		JOIN open_day od ON r.jpo_id = od.jpo_id
		JOIN campus c ON od.campus_id = c.campus_id
		WHERE r.registration_id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&detail.ID,
		&detail.RegistrationDate,
		&detail.Status,
		&detail.User.ID,
		&detail.User.FirstName,
		&detail.User.LastName,
		&detail.User.Email,
		&detail.User.UserType,
		&detail.OpenDay.ID,
		&detail.OpenDay.Name,
		&detail.OpenDay.Date,
		&detail.OpenDay.Campus.ID,
		&detail.OpenDay.Campus.Name,
		&detail.OpenDay.Campus.City,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return detail, err
}

// GetRow returns the bare registration row, or nil when absent.
func (r *RegistrationRepository) GetRow(ctx context.Context, id int64) (*models.Registration, error) {
	reg := &models.Registration{}
	query := `
		SELECT registration_id, user_id, jpo_id, registration_date, status
		FROM registration
		WHERE registration_id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reg.RegistrationID,
		&reg.UserID,
		&reg.JpoID,
		&reg.RegistrationDate,
		&reg.Status,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return reg, err
}

// Create inserts the registration with the capacity guard pushed into the
// statement itself: the row is only written while the active count is below
// max_capacity, so concurrent writers cannot overshoot the ceiling even
// across processes. No row means the open day is missing or full - both are
// reported as full (fail closed).
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registration (user_id, jpo_id, registration_date, status)
		SELECT $1, od.jpo_id, $3, $4
		FROM open_day od
		WHERE od.jpo_id = $2
		  AND (SELECT COUNT(*) FROM registration x
		       WHERE x.jpo_id = od.jpo_id AND x.status = $5) < od.max_capacity
		RETURNING registration_id, registration_date`

	err := r.db.QueryRowContext(ctx, query,
		reg.UserID,
		reg.JpoID,
		reg.RegistrationDate,
		reg.Status,
		models.StatusRegistered,
	).Scan(&reg.RegistrationID, &reg.RegistrationDate)

	if err == sql.ErrNoRows {
		return apperrors.ErrOpenDayFull
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return apperrors.ErrAlreadyRegistered
	}

	return err
}

// Cancel flips the registration to unregistered. Cancellation only frees
// capacity, so it is unconditional. Returns false when the id is unknown.
func (r *RegistrationRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE registration SET status = $1 WHERE registration_id = $2`,
		models.StatusUnregistered, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Reactivate flips the registration back to registered under the same
// statement-level capacity guard as Create.
func (r *RegistrationRepository) Reactivate(ctx context.Context, id int64) error {
	query := `
		UPDATE registration r SET status = $2
		WHERE r.registration_id = $1
		  AND (SELECT COUNT(*) FROM registration x
		       WHERE x.jpo_id = r.jpo_id AND x.status = $2) <
		      (SELECT od.max_capacity FROM open_day od WHERE od.jpo_id = r.jpo_id)`

	result, err := r.db.ExecContext(ctx, query, id, models.StatusRegistered)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return apperrors.ErrAlreadyRegistered
	}
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrOpenDayFull
	}

	return nil
}

// Delete removes the row. Administrative operation, bypasses the status
// lifecycle on purpose.
func (r *RegistrationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM registration WHERE registration_id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// IsUserRegistered reports whether the pair holds an active registration.
func (r *RegistrationRepository) IsUserRegistered(ctx context.Context, userID, jpoID int64) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM registration
		WHERE user_id = $1 AND jpo_id = $2 AND status = $3`

	err := r.db.QueryRowContext(ctx, query, userID, jpoID, models.StatusRegistered).Scan(&count)
	return count > 0, err
}

// IsOpenDayFull reports whether the open day has no spare capacity. An
// unknown open day counts as full so callers cannot register against it.
func (r *RegistrationRepository) IsOpenDayFull(ctx context.Context, jpoID int64) (bool, error) {
	var maxCapacity, current int
	query := `
		SELECT od.max_capacity, COUNT(r.registration_id)
		FROM open_day od
		LEFT JOIN registration r ON od.jpo_id = r.jpo_id AND r.status = $2
		WHERE od.jpo_id = $1
		GROUP BY od.jpo_id, od.max_capacity`

	err := r.db.QueryRowContext(ctx, query, jpoID, models.StatusRegistered).Scan(&maxCapacity, &current)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return true, err
	}

	return current >= maxCapacity, nil
}

// Stats returns the global registration counters.
func (r *RegistrationRepository) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	stats := &models.RegistrationStats{}
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'registered'),
			COUNT(*) FILTER (WHERE status = 'unregistered'),
			COUNT(DISTINCT user_id),
			COUNT(DISTINCT jpo_id)
		FROM registration`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalRegistrations,
		&stats.ActiveRegistrations,
		&stats.CancelledRegistrations,
		&stats.UniqueUsers,
		&stats.OpenDaysWithActivity,
	)

	return stats, err
}

// StatsByOpenDay returns per-open-day fill rates, fullest first.
func (r *RegistrationRepository) StatsByOpenDay(ctx context.Context) ([]models.OpenDayStats, error) {
	query := `
		SELECT
			od.jpo_id,
			od.name,
			od.max_capacity,
			COUNT(r.registration_id),
			od.max_capacity - COUNT(r.registration_id),
			ROUND(COUNT(r.registration_id)::numeric / od.max_capacity * 100, 2)
		FROM open_day od
		LEFT JOIN registration r ON od.jpo_id = r.jpo_id AND r.status = $1
		GROUP BY od.jpo_id, od.name, od.max_capacity
		ORDER BY 6 DESC`

	rows, err := r.db.QueryContext(ctx, query, models.StatusRegistered)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.OpenDayStats
	for rows.Next() {
		var s models.OpenDayStats
		if err := rows.Scan(&s.JpoID, &s.Name, &s.MaxCapacity, &s.RegistrationCount, &s.AvailableSpots, &s.FillRate); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, rows.Err()
}
