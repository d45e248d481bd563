package postgresql

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// uniqueConstraint returns the violated unique constraint, or "" when err is
// not a unique violation.
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

// storeError wraps a failed query. Timeouts and connection failures become
// apperror.ErrUnavailable since the statement may or may not have run.
func storeError(op string, err error) error {
	var connErr *pgconn.ConnectError
	if apperror.IsTimeout(err) || pgconn.Timeout(err) || errors.As(err, &connErr) {
		return apperror.Unavailable(op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
