package borrowings

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/dkushnir/library-service-api/internal/books"
	"github.com/dkushnir/library-service-api/pkg/db/models"
	pkgerrors "github.com/dkushnir/library-service-api/pkg/errors"
)

const outOfStockMessage = "This book is out of stock"

// txRunner runs a function inside a database transaction. Satisfied by
// *db.Client.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the borrowing lifecycle: creating a borrowing consumes one
// inventory unit, closing it gives the unit back. Both transitions run as
// guarded updates inside a transaction so concurrent requests can never
// oversell a book or refund inventory twice.
type Service interface {
	Create(ctx context.Context, caller Caller, input CreateInput) (*CreatedDTO, error)
	Get(ctx context.Context, caller Caller, id uint) (*DetailDTO, error)
	List(ctx context.Context, caller Caller, filters ListFilters) ([]ListItemDTO, error)
	Return(ctx context.Context, caller Caller, id uint) (CloseStatus, error)
}

type ServiceParams struct {
	Repo     Repository
	BookRepo books.Repository
	Tx       txRunner
	Now      func() time.Time
}

type service struct {
	repo     Repository
	bookRepo books.Repository
	tx       txRunner
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("borrowings: repository is required")
	}
	if params.BookRepo == nil {
		return nil, errors.New("borrowings: book repository is required")
	}
	if params.Tx == nil {
		return nil, errors.New("borrowings: transaction runner is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		bookRepo: params.BookRepo,
		tx:       params.Tx,
		now:      now,
	}, nil
}

func (s *service) Create(ctx context.Context, caller Caller, input CreateInput) (*CreatedDTO, error) {
	// Same-day borrowings are fine; only a deadline in the past of the
	// borrow date is malformed.
	if input.ExpectedReturnDate.Before(input.BorrowDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected_return_date must not be before borrow_date")
	}

	var created *models.Borrowing
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		bookRepo := s.bookRepo.WithTx(tx)

		book, err := s.resolveBook(ctx, bookRepo, input.Book)
		if err != nil {
			return err
		}

		// Conditional decrement; zero rows affected means the shelf is empty.
		ok, err := bookRepo.DecrementInventory(ctx, book.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to reserve inventory")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, outOfStockMessage)
		}

		borrowing := &models.Borrowing{
			BorrowDate:         input.BorrowDate,
			ExpectedReturnDate: input.ExpectedReturnDate,
			BookID:             book.ID,
			UserID:             caller.UserID,
		}
		if err := s.repo.WithTx(tx).Create(ctx, borrowing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create borrowing")
		}
		created = borrowing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return createdFromModel(created), nil
}

// resolveBook accepts a numeric id or a title.
func (s *service) resolveBook(ctx context.Context, repo books.Repository, ref string) (*models.Book, error) {
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "book is required")
	}

	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		book, err := repo.FindByID(ctx, uint(id))
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load book")
		}
		// Fall through: a purely numeric title is unusual but legal.
	}

	book, err := repo.FindByTitle(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load book")
	}
	return book, nil
}

func (s *service) Get(ctx context.Context, caller Caller, id uint) (*DetailDTO, error) {
	borrowing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, borrowing); err != nil {
		return nil, err
	}
	return detailFromModel(borrowing), nil
}

func (s *service) List(ctx context.Context, caller Caller, filters ListFilters) ([]ListItemDTO, error) {
	scope := ListScope{ActiveOnly: filters.IsActive}
	if caller.IsStaff {
		scope.UserID = filters.UserID
	} else {
		// Non-staff callers only ever see their own rows; a user_id filter
		// from them is silently ignored.
		scope.UserID = caller.UserID
	}

	rows, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list borrowings")
	}

	items := make([]ListItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, listItemFromModel(&rows[i]))
	}
	return items, nil
}

func (s *service) Return(ctx context.Context, caller Caller, id uint) (CloseStatus, error) {
	borrowing, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if err := authorize(caller, borrowing); err != nil {
		return "", err
	}

	status := StatusAlreadyClosed
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		closed, err := s.repo.WithTx(tx).CloseIfOpen(ctx, borrowing.ID, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to close borrowing")
		}
		if !closed {
			// Somebody beat us to it; the inventory unit was already returned.
			return nil
		}
		status = StatusClosed
		if err := s.bookRepo.WithTx(tx).IncrementInventory(ctx, borrowing.BookID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to restore inventory")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func (s *service) load(ctx context.Context, id uint) (*models.Borrowing, error) {
	borrowing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "borrowing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load borrowing")
	}
	return borrowing, nil
}

func authorize(caller Caller, borrowing *models.Borrowing) error {
	if caller.IsStaff || borrowing.UserID == caller.UserID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "you do not have access to this borrowing")
}
