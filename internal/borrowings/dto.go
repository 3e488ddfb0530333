package borrowings

import (
	"time"

	"github.com/dkushnir/library-service-api/internal/books"
	"github.com/dkushnir/library-service-api/internal/users"
	"github.com/dkushnir/library-service-api/pkg/db/models"
)

const dateLayout = "2006-01-02"

// Caller identifies the authenticated principal acting on a borrowing.
type Caller struct {
	UserID  uint
	IsStaff bool
}

// CreateInput carries the borrow request. Book accepts a title or a numeric id.
type CreateInput struct {
	BorrowDate         time.Time
	ExpectedReturnDate time.Time
	Book               string
}

// ListFilters narrows the borrowing listing. UserID is honored for staff only.
type ListFilters struct {
	IsActive bool
	UserID   uint
}

// CloseStatus distinguishes the first close from an idempotent repeat. Both
// are success outcomes.
type CloseStatus string

const (
	StatusClosed        CloseStatus = "closed"
	StatusAlreadyClosed CloseStatus = "already_closed"
)

// ListItemDTO is the summary row: book as title, user as email.
type ListItemDTO struct {
	ID                 uint    `json:"id"`
	BorrowDate         string  `json:"borrow_date"`
	ExpectedReturnDate string  `json:"expected_return_date"`
	ActualReturnDate   *string `json:"actual_return_date"`
	Book               string  `json:"book"`
	User               string  `json:"user"`
}

// DetailDTO expands the referenced book and user.
type DetailDTO struct {
	ID                 uint           `json:"id"`
	BorrowDate         string         `json:"borrow_date"`
	ExpectedReturnDate string         `json:"expected_return_date"`
	ActualReturnDate   *string        `json:"actual_return_date"`
	Book               *books.BookDTO `json:"book"`
	User               *users.UserDTO `json:"user"`
}

// CreatedDTO echoes the id fields of a freshly created borrowing.
type CreatedDTO struct {
	ID                 uint   `json:"id"`
	BorrowDate         string `json:"borrow_date"`
	ExpectedReturnDate string `json:"expected_return_date"`
	BookID             uint   `json:"book_id"`
	UserID             uint   `json:"user_id"`
}

func listItemFromModel(b *models.Borrowing) ListItemDTO {
	return ListItemDTO{
		ID:                 b.ID,
		BorrowDate:         formatDate(b.BorrowDate),
		ExpectedReturnDate: formatDate(b.ExpectedReturnDate),
		ActualReturnDate:   formatDatePtr(b.ActualReturnDate),
		Book:               b.Book.Title,
		User:               b.User.Email,
	}
}

func detailFromModel(b *models.Borrowing) *DetailDTO {
	return &DetailDTO{
		ID:                 b.ID,
		BorrowDate:         formatDate(b.BorrowDate),
		ExpectedReturnDate: formatDate(b.ExpectedReturnDate),
		ActualReturnDate:   formatDatePtr(b.ActualReturnDate),
		Book:               books.FromModel(&b.Book),
		User:               users.FromModel(&b.User),
	}
}

func createdFromModel(b *models.Borrowing) *CreatedDTO {
	return &CreatedDTO{
		ID:                 b.ID,
		BorrowDate:         formatDate(b.BorrowDate),
		ExpectedReturnDate: formatDate(b.ExpectedReturnDate),
		BookID:             b.BookID,
		UserID:             b.UserID,
	}
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}
