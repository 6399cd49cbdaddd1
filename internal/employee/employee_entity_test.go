package employee_test

import (
	"testing"
	"time"

	"github.com/dilinamewan/Employee-Directory/internal/employee"

	"github.com/stretchr/testify/assert"
)

func TestYearsOfService(t *testing.T) {
	hire := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, employee.YearsOfService(hire, time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)))
	// calendar years only: one day into 2021 already counts as a year
	assert.Equal(t, 1, employee.YearsOfService(hire, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, employee.Employee{HireDate: hire}.YearsOfService(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
}
