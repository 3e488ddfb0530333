package borrowings

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dkushnir/library-service-api/pkg/db/models"
)

// ListScope is the fully resolved filter applied to a listing query. The
// service builds it from the caller's role; by the time it reaches the repo
// the visibility rules have already been applied.
type ListScope struct {
	UserID     uint // 0 means all users
	ActiveOnly bool
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, borrowing *models.Borrowing) error
	FindByID(ctx context.Context, id uint) (*models.Borrowing, error)
	List(ctx context.Context, scope ListScope) ([]models.Borrowing, error)
	// CloseIfOpen stamps the actual return date on an open borrowing. It
	// reports false when the borrowing was already closed, without touching
	// the row.
	CloseIfOpen(ctx context.Context, id uint, returnedAt time.Time) (bool, error)
	FindOpenOverdue(ctx context.Context, asOf time.Time) ([]models.Borrowing, error)
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

func (r *repository) Create(ctx context.Context, borrowing *models.Borrowing) error {
	return r.db.WithContext(ctx).Create(borrowing).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Borrowing, error) {
	var borrowing models.Borrowing
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		First(&borrowing, id).Error
	if err != nil {
		return nil, err
	}
	return &borrowing, nil
}

func (r *repository) List(ctx context.Context, scope ListScope) ([]models.Borrowing, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Borrowing{}).
		Preload("Book").
		Preload("User")
	if scope.UserID != 0 {
		query = query.Where("user_id = ?", scope.UserID)
	}
	if scope.ActiveOnly {
		query = query.Where("actual_return_date IS NULL")
	}

	var rows []models.Borrowing
	err := query.
		Order("borrow_date DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CloseIfOpen(ctx context.Context, id uint, returnedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Borrowing{}).
		Where("id = ? AND actual_return_date IS NULL", id).
		UpdateColumn("actual_return_date", returnedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FindOpenOverdue(ctx context.Context, asOf time.Time) ([]models.Borrowing, error) {
	var rows []models.Borrowing
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("actual_return_date IS NULL AND expected_return_date <= ?", asOf).
		Order("expected_return_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
