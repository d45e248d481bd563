package auth

import (
	"errors"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// Principal is the authenticated caller. It is passed explicitly into every
// service operation instead of being read from request state.
type Principal struct {
	UserID string
	Role   user.Role
}

// PrincipalFromClaims builds a Principal from verified access token claims.
func PrincipalFromClaims(claims map[string]interface{}) (Principal, error) {
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return Principal{}, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Principal{}, errors.Join(ErrInvalidToken, errors.New("user_id claim is missing or invalid"))
	}

	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).IsValid() {
		return Principal{}, errors.Join(ErrInvalidToken, errors.New("role claim is missing or invalid"))
	}

	return Principal{UserID: userID, Role: user.Role(role)}, nil
}

func (p Principal) IsAdmin() bool {
	return p.Role == user.RoleAdmin
}

func (p Principal) Can(permission user.Permission) bool {
	return user.HasPermission(p.Role, permission)
}
