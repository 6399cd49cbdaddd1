package employee

import (
	"errors"
	"fmt"
	"testing"

	employeeerrors "github.com/dilinamewan/Employee-Directory/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapRepositoryError(t *testing.T) {
	storeErr := errors.New("connection reset by peer")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil stays nil", nil, nil},
		{"record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), employeeerrors.ErrEmployeeNotFound},
		{"email unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_email"}, employeeerrors.ErrEmployeeAlreadyExists},
		{"wrapped email unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_email"}), employeeerrors.ErrEmployeeAlreadyExists},
		{"not-null violation passes through", &pgconn.PgError{Code: "23502", ColumnName: "phone"}, nil},
		{"other unique violation passes through", &pgconn.PgError{Code: "23505", ConstraintName: "employees_pkey"}, nil},
		{"unknown error passes through", storeErr, storeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapRepositoryError(tt.in)
			if tt.want == nil && tt.in != nil {
				assert.Equal(t, tt.in, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
