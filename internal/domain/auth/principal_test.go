package auth

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalFromClaims(t *testing.T) {
	p, err := PrincipalFromClaims(map[string]interface{}{
		"user_id": "u-1",
		"role":    "manager",
		"type":    "access",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UserID)
	assert.Equal(t, user.RoleManager, p.Role)
	assert.False(t, p.IsAdmin())
	assert.True(t, p.Can(user.PermissionAttendanceApprove))
}

func TestPrincipalFromClaims_Rejects(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"refresh token":  {"user_id": "u-1", "role": "admin", "type": "refresh"},
		"missing user":   {"role": "admin", "type": "access"},
		"unknown role":   {"user_id": "u-1", "role": "owner", "type": "access"},
		"non-string uid": {"user_id": 42, "role": "admin", "type": "access"},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PrincipalFromClaims(claims)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}
