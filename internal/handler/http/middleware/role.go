package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

// RequirePermission checks if the caller's role grants permission. Services
// repeat the check; this only rejects early.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrMissingPrincipal)
				return
			}

			if !principal.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("role %s lacks permission %s", principal.Role, permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
