package books

import (
	"github.com/shopspring/decimal"

	"github.com/dkushnir/library-service-api/pkg/db/models"
	"github.com/dkushnir/library-service-api/pkg/enums"
)

// BookDTO is the transport shape of a catalog entry.
type BookDTO struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	Cover     string          `json:"cover"`
	Inventory int             `json:"inventory"`
	DailyFee  decimal.Decimal `json:"daily_fee"`
}

// CreateBookInput carries the staff-supplied catalog fields.
type CreateBookInput struct {
	Title     string          `json:"title" validate:"required,max=255"`
	Author    string          `json:"author" validate:"required,max=255"`
	Cover     string          `json:"cover" validate:"required,oneof=HARD SOFT"`
	Inventory int             `json:"inventory" validate:"gte=0"`
	DailyFee  decimal.Decimal `json:"daily_fee" validate:"required"`
}

// UpdateBookInput carries the mutable catalog fields; nil means unchanged.
type UpdateBookInput struct {
	Title     *string          `json:"title" validate:"omitempty,max=255"`
	Author    *string          `json:"author" validate:"omitempty,max=255"`
	Cover     *string          `json:"cover" validate:"omitempty,oneof=HARD SOFT"`
	Inventory *int             `json:"inventory" validate:"omitempty,gte=0"`
	DailyFee  *decimal.Decimal `json:"daily_fee"`
}

func FromModel(b *models.Book) *BookDTO {
	if b == nil {
		return nil
	}
	return &BookDTO{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Cover:     b.Cover.String(),
		Inventory: b.Inventory,
		DailyFee:  b.DailyFee,
	}
}

func (c CreateBookInput) toModel(cover enums.BookCover) *models.Book {
	return &models.Book{
		Title:     c.Title,
		Author:    c.Author,
		Cover:     cover,
		Inventory: c.Inventory,
		DailyFee:  c.DailyFee,
	}
}
