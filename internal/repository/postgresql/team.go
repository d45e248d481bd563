package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/team"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const teamSelect = `
	SELECT t.id, t.name, t.manager_id, t.department_id,
		   COALESCE(array_agg(u.id ORDER BY u.name) FILTER (WHERE u.id IS NOT NULL), '{}')
	FROM teams t
	LEFT JOIN users u ON u.team_id = t.id
`

type teamRepositoryImpl struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) team.TeamRepository {
	return &teamRepositoryImpl{db: db}
}

// GetByID implements team.TeamRepository.
func (r *teamRepositoryImpl) GetByID(ctx context.Context, id string) (team.Team, error) {
	return r.get(ctx, `t.id = $1`, id)
}

// GetByManagerID implements team.TeamRepository.
func (r *teamRepositoryImpl) GetByManagerID(ctx context.Context, managerID string) (team.Team, error) {
	return r.get(ctx, `t.manager_id = $1`, managerID)
}

func (r *teamRepositoryImpl) get(ctx context.Context, cond string, arg string) (team.Team, error) {
	if !validator.IsValidUUID(arg) {
		return team.Team{}, team.ErrTeamNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := teamSelect + ` WHERE ` + cond + ` GROUP BY t.id`

	var t team.Team
	err := q.QueryRow(ctx, query, arg).Scan(
		&t.ID,
		&t.Name,
		&t.ManagerID,
		&t.DepartmentID,
		&t.MemberIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return team.Team{}, team.ErrTeamNotFound
		}
		return team.Team{}, storeError("get team", err)
	}
	return t, nil
}
