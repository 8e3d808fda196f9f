package employee

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Employee) error
	FindByNumber(ctx context.Context, number string) (*Employee, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*Employee, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]Employee, error)
	FindAll(ctx context.Context) ([]Employee, error)
	EnsurePublicID(ctx context.Context, id int64, candidate uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByNumber(ctx context.Context, number string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "employee_number = ?", number).Error
	return &e, err
}

func (r *repository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "public_id = ?", publicID).Error
	return &e, err
}

func (r *repository) FindByName(ctx context.Context, firstName, lastName string) ([]Employee, error) {
	var rows []Employee
	// Exact, case-sensitive match. Ambiguity is decided by the caller.
	err := r.db.WithContext(ctx).
		Where("first_name = ?", firstName).
		Where("last_name = ?", lastName).
		Limit(2).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Order("employee_number ASC").
		Find(&rows).Error
	return rows, err
}

// EnsurePublicID assigns candidate as the employee's public identifier only
// if none is set yet, in a single statement so concurrent first enrollments
// cannot race each other. The returned value is whatever ended up stored.
func (r *repository) EnsurePublicID(ctx context.Context, id int64, candidate uuid.UUID) (uuid.UUID, error) {
	var stored uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		UPDATE employees
		SET public_id = COALESCE(public_id, ?), updated_at = now()
		WHERE id = ?
		RETURNING public_id
	`, candidate, id).Scan(&stored).Error
	if err != nil {
		return uuid.Nil, err
	}
	return stored, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}
