package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkushnir/library-service-api/pkg/enums"
)

// Book represents a catalog title. Inventory counts physically available
// copies and is only ever mutated through guarded conditional updates.
type Book struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string          `gorm:"column:title;not null;index"`
	Author    string          `gorm:"column:author;not null"`
	Cover     enums.BookCover `gorm:"column:cover;type:text;not null"`
	Inventory int             `gorm:"column:inventory;not null;default:0"`
	DailyFee  decimal.Decimal `gorm:"column:daily_fee;type:numeric(8,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
