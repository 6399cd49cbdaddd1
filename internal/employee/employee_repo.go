package employee

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// ordinal ordering, independent of the database locale
const listOrder = `full_name COLLATE "C" ASC, id ASC`

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Count(ctx context.Context, search string) (int64, error)
	List(ctx context.Context, search string, offset, limit int) ([]Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, empl *Employee) error
	// Update applies the full record only if the stored version still equals
	// expectedVersion. It reports false when no row matched.
	Update(ctx context.Context, empl *Employee, expectedVersion int64) (bool, error)
	// Delete reports false when no row had the given id.
	Delete(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open *sql.Tx so it can share a
// transaction with the outbox.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	// a Context forces Session to clone the statement; without it the
	// ConnPool assignment would leak into the shared *gorm.DB
	txDB := r.db.Session(&gorm.Session{NewDB: true, Context: context.Background()})
	txDB.Statement.ConnPool = tx
	return &repository{db: txDB}
}

// SearchScope matches employees whose full name or department contains term.
// Matching is a case-sensitive substring test; % and _ have no special meaning.
func SearchScope(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		return db.Where("strpos(full_name, ?) > 0 OR strpos(department, ?) > 0", term, term)
	}
}

func (r *repository) Count(ctx context.Context, search string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(SearchScope(search)).
		Count(&total).Error
	return total, err
}

func (r *repository) List(ctx context.Context, search string, offset, limit int) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Scopes(SearchScope(search)).
		Order(listOrder).
		Offset(offset).
		Limit(limit).
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) Update(ctx context.Context, empl *Employee, expectedVersion int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ? AND version = ?", empl.ID, expectedVersion).
		Updates(map[string]interface{}{
			"full_name":  empl.FullName,
			"email":      empl.Email,
			"position":   empl.Position,
			"department": empl.Department,
			"phone":      empl.Phone,
			"hire_date":  empl.HireDate,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Employee{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
