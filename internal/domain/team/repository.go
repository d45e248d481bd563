package team

import "context"

type TeamRepository interface {
	GetByID(ctx context.Context, id string) (Team, error)

	// GetByManagerID returns the team managed by managerID.
	GetByManagerID(ctx context.Context, managerID string) (Team, error)
}
