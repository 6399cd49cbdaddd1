package employee_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dilinamewan/Employee-Directory/internal/employee"
	"github.com/dilinamewan/Employee-Directory/internal/messaging/kafka"

	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("employees"),
		tcpostgres.WithUsername("directory"),
		tcpostgres.WithPassword("directory"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(sqlDB, "../../migrations"))

	return gormDB, sqlDB
}

func hire(t *testing.T, svc employee.Service, name, email, department string) {
	t.Helper()
	_, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{
		FullName:   name,
		Email:      email,
		Position:   "Analyst",
		Department: department,
		Phone:      "0123456789",
		HireDate:   "2021-06-01",
	})
	require.NoError(t, err)
}

func TestEmployeeDirectory_Postgres(t *testing.T) {
	gormDB, sqlDB := setupPostgres(t)
	svc := employee.NewService(sqlDB, employee.NewRepository(gormDB), kafka.NewOutboxRepository(sqlDB))
	ctx := context.Background()

	hire(t, svc, "Carol White", "carol@example.com", "IT")
	hire(t, svc, "Alice Smith", "alice@example.com", "IT")
	hire(t, svc, "Bob Jones", "bob@example.com", "HR")

	list := func(t *testing.T, q employee.ListEmployeesQuery) employee.EmployeeListResponse {
		t.Helper()
		res, err := svc.List(ctx, q)
		require.NoError(t, err)
		return res
	}

	t.Run("department search sorted by name", func(t *testing.T) {
		res := list(t, employee.ListEmployeesQuery{Search: "IT", Page: 1, PageSize: 2})

		assert.Equal(t, []string{"Alice Smith", "Carol White"}, itemNames(res))
		assert.Equal(t, employee.Pagination{CurrentPage: 1, PageSize: 2, TotalPages: 1, TotalCount: 2}, res.Pagination)
	})

	t.Run("empty search first page", func(t *testing.T) {
		res := list(t, employee.ListEmployeesQuery{Page: 1, PageSize: 2})

		assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, itemNames(res))
		assert.Equal(t, 2, res.Pagination.TotalPages)
		assert.Equal(t, int64(3), res.Pagination.TotalCount)
	})

	t.Run("search is case-sensitive", func(t *testing.T) {
		assert.Empty(t, list(t, employee.ListEmployeesQuery{Search: "hr"}).Items)
		assert.Equal(t, []string{"Bob Jones"}, itemNames(list(t, employee.ListEmployeesQuery{Search: "HR"})))
	})

	t.Run("search matches the name as well as the department", func(t *testing.T) {
		assert.Equal(t, []string{"Bob Jones"}, itemNames(list(t, employee.ListEmployeesQuery{Search: "Jon"})))
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		res := list(t, employee.ListEmployeesQuery{Search: "%"})

		assert.Empty(t, res.Items)
		assert.Zero(t, res.Pagination.TotalCount)
	})

	t.Run("no match past the end reports page one of zero", func(t *testing.T) {
		res := list(t, employee.ListEmployeesQuery{Search: "nobody", Page: 50})

		assert.Empty(t, res.Items)
		assert.Equal(t, employee.Pagination{CurrentPage: 1, PageSize: 10, TotalPages: 0, TotalCount: 0}, res.Pagination)
	})

	t.Run("oversized page size is capped", func(t *testing.T) {
		res := list(t, employee.ListEmployeesQuery{PageSize: 500})

		assert.Len(t, res.Items, 3)
		assert.Equal(t, employee.MaxPageSize, res.Pagination.PageSize)
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		q := employee.ListEmployeesQuery{Page: 2, PageSize: 2}
		assert.Equal(t, list(t, q), list(t, q))
	})

	t.Run("ordering is ordinal", func(t *testing.T) {
		hire(t, svc, "bob Lowe", "bob.lowe@example.com", "Ops")

		res := list(t, employee.ListEmployeesQuery{})

		assert.Equal(t, []string{"Alice Smith", "Bob Jones", "Carol White", "bob Lowe"}, itemNames(res))
	})
}
