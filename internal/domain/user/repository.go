package user

import "context"

// UserRepository reads accounts from the employee directory.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)

	// List returns directory users, optionally restricted to one team, ordered by name.
	List(ctx context.Context, filter ListFilter) ([]User, error)
}

type ListFilter struct {
	TeamID *string
}
