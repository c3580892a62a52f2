// Package pgerrs translates gorm and PostgreSQL driver errors into the errs taxonomy.
package pgerrs

import (
	"errors"

	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE reported for a duplicate key.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err was caused by a unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Translate maps a missing row to ObjectNotFoundError and a duplicate key to
// ConflictError. Other errors are returned unchanged.
func Translate(err error, object string, key any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewObjectNotFoundError(object, key)
	case IsUniqueViolation(err):
		return errs.NewConflictErrorWithCause(object, "already exists", err)
	default:
		return err
	}
}
