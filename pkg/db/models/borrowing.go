package models

import "time"

// Borrowing ties a book copy to the user holding it. A nil ActualReturnDate
// means the borrowing is still open; it is set exactly once when the book
// comes back.
type Borrowing struct {
	ID                 uint       `gorm:"column:id;primaryKey;autoIncrement"`
	BorrowDate         time.Time  `gorm:"column:borrow_date;type:date;not null;index"`
	ExpectedReturnDate time.Time  `gorm:"column:expected_return_date;type:date;not null"`
	ActualReturnDate   *time.Time `gorm:"column:actual_return_date;type:date"`
	BookID             uint       `gorm:"column:book_id;not null;index"`
	Book               Book       `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	UserID             uint       `gorm:"column:user_id;not null;index"`
	User               User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// IsActive reports whether the borrowing is still open.
func (b Borrowing) IsActive() bool {
	return b.ActualReturnDate == nil
}
