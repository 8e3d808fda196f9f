package face

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=face_repo.go -destination=mock/face_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, f *FaceEmbedding) error
	FindByEntryID(ctx context.Context, entryID uuid.UUID) (*FaceEmbedding, error)
	FindActiveByEmployee(ctx context.Context, employeeID int64) ([]FaceEmbedding, error)
	FindAllActive(ctx context.Context) ([]FaceEmbedding, error)
	CountActiveByEmployee(ctx context.Context, employeeID int64) (int64, error)
	Delete(ctx context.Context, entryID uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, f *FaceEmbedding) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) FindByEntryID(ctx context.Context, entryID uuid.UUID) (*FaceEmbedding, error) {
	var f FaceEmbedding
	err := r.db.WithContext(ctx).First(&f, "entry_id = ?", entryID).Error
	return &f, err
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID int64) ([]FaceEmbedding, error) {
	var rows []FaceEmbedding
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]FaceEmbedding, error) {
	var rows []FaceEmbedding
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("is_active = ?", true).
		Order("employee_id ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountActiveByEmployee(ctx context.Context, employeeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&FaceEmbedding{}).
		Where("employee_id = ?", employeeID).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) Delete(ctx context.Context, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&FaceEmbedding{}, "entry_id = ?", entryID).Error
}
