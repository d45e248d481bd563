package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const holidayColumns = `
	id, name, date, is_company_wide, applicable_departments, description, created_at, updated_at
`

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Date,
		&h.IsCompanyWide,
		&h.ApplicableDepartments,
		&h.Description,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	return h, err
}

func departmentArgs(h holiday.Holiday) []string {
	if h.ApplicableDepartments == nil {
		return []string{}
	}
	return h.ApplicableDepartments
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (id, name, date, is_company_wide, applicable_departments, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + holidayColumns

	created, err := scanHoliday(q.QueryRow(ctx, query,
		h.ID, h.Name, h.Date, h.IsCompanyWide, departmentArgs(h), h.Description,
	))
	if err != nil {
		return holiday.Holiday{}, storeError("create holiday", err)
	}
	return created, nil
}

// GetByID implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	// A malformed id cannot match the uuid column.
	if !validator.IsValidUUID(id) {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE id = $1`

	h, err := scanHoliday(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, storeError("get holiday", err)
	}
	return h, nil
}

// Update implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE holidays
		SET name = $2,
			date = $3,
			is_company_wide = $4,
			applicable_departments = $5,
			description = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + holidayColumns

	updated, err := scanHoliday(q.QueryRow(ctx, query,
		h.ID, h.Name, h.Date, h.IsCompanyWide, departmentArgs(h), h.Description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, storeError("update holiday", err)
	}
	return updated, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return storeError("delete holiday", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

// ListBetween implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE date >= $1 AND date <= $2 ORDER BY date ASC, name ASC`
	return r.list(ctx, "list holidays", query, start, end)
}

// ListByDate implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]holiday.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE date = $1 ORDER BY name ASC`
	return r.list(ctx, "list holidays by date", query, date)
}

// LockDate implements holiday.HolidayRepository. The lock is released when
// the surrounding transaction ends.
func (r *holidayRepositoryImpl) LockDate(ctx context.Context, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "holiday:"+dateutil.Format(date)); err != nil {
		return storeError("lock holiday date", err)
	}
	return nil
}

func (r *holidayRepositoryImpl) list(ctx context.Context, op, query string, args ...interface{}) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	holidays := []holiday.Holiday{}
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return holidays, nil
}
