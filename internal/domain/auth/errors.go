package auth

import "errors"

// Token and principal errors. HandleError maps all of them to 401.
var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrMissingPrincipal = errors.New("request carries no authenticated principal")
)
