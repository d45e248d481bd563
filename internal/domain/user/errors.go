package user

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrUserNotFound            = apperror.NotFound("user not found")
	ErrAdminPrivilegeRequired  = apperror.Forbidden("admin privilege required")
	ErrManagerAccessRequired   = apperror.Forbidden("manager access required")
	ErrInsufficientPermissions = apperror.Forbidden("insufficient permissions")
)
