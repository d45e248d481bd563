package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const userSelect = `
	SELECT u.id, u.name, u.email, u.role, u.department_id, u.team_id,
		   t.name, mt.id
	FROM users u
	LEFT JOIN teams t ON t.id = u.team_id
	LEFT JOIN teams mt ON mt.manager_id = u.id
`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.DepartmentID,
		&u.TeamID,
		&u.TeamName,
		&u.ManagedTeamID,
	)
	return u, err
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	if !validator.IsValidUUID(id) {
		return user.User{}, user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, storeError("get user", err)
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := userSelect
	args := []interface{}{}
	if filter.TeamID != nil && *filter.TeamID != "" {
		query += ` WHERE u.team_id = $1`
		args = append(args, *filter.TeamID)
	}
	query += ` ORDER BY u.name ASC, u.id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate users", err)
	}
	return users, nil
}
