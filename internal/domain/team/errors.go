package team

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrTeamNotFound = apperror.NotFound("team not found")
	ErrNotTeamOwner = apperror.Forbidden("you can only access the team you manage")
)
