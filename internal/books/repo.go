package books

import (
	"context"

	"github.com/dkushnir/library-service-api/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes catalog persistence, including the guarded inventory
// updates the borrowing lifecycle depends on.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	FindByID(ctx context.Context, id uint) (*models.Book, error)
	FindByTitle(ctx context.Context, title string) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	Delete(ctx context.Context, id uint) error
	DecrementInventory(ctx context.Context, id uint) (bool, error)
	IncrementInventory(ctx context.Context, id uint) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a books repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *repository) FindByTitle(ctx context.Context, title string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).Where("title = ?", title).Order("id ASC").First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *repository) List(ctx context.Context) ([]models.Book, error) {
	var rows []models.Book
	err := r.db.WithContext(ctx).
		Order("title ASC, id ASC").
		Find(&rows).
		Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, id uint, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Book{}).
		Error
}

// DecrementInventory takes one copy off the shelf. The stock check and the
// write are a single guarded UPDATE so concurrent borrows can never drive
// inventory negative; false means there was no copy left.
func (r *repository) DecrementInventory(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND inventory > 0", id).
		UpdateColumn("inventory", gorm.Expr("inventory - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementInventory puts a returned copy back.
func (r *repository) IncrementInventory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		UpdateColumn("inventory", gorm.Expr("inventory + 1")).
		Error
}
