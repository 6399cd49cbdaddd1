package employee

import (
	"time"
)

type Employee struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	FullName   string    `gorm:"type:varchar(100);not null"`
	Email      string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_employees_email"`
	Position   string    `gorm:"type:varchar(50);not null"`
	Department string    `gorm:"type:varchar(50);not null"`
	Phone      string    `gorm:"type:char(10);not null"`
	HireDate   time.Time `gorm:"type:date;not null"`
	Version    int64     `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// YearsOfService counts calendar years between the hire year and now. Month
// and day are ignored, so the value can run up to a year ahead of the real tenure.
func (e Employee) YearsOfService(now time.Time) int {
	return YearsOfService(e.HireDate, now)
}

func YearsOfService(hireDate, now time.Time) int {
	return now.Year() - hireDate.Year()
}
