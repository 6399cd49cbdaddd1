package employee

import (
	"errors"

	employeeerrors "github.com/dilinamewan/Employee-Directory/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	emailUniqueConstraint = "uq_employees_email"
)

// mapRepositoryError turns store errors the caller can act on into feature
// errors. Anything else is returned untouched and ends up as a 500.
func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == emailUniqueConstraint {
		return employeeerrors.ErrEmployeeAlreadyExists
	}
	return err
}
