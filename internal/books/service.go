package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/dkushnir/library-service-api/pkg/errors"
	"github.com/dkushnir/library-service-api/pkg/enums"
	"gorm.io/gorm"
)

// Service defines catalog operations. Reads are public; writes are gated to
// staff at the routing layer.
type Service interface {
	Create(ctx context.Context, input CreateBookInput) (*BookDTO, error)
	Get(ctx context.Context, id uint) (*BookDTO, error)
	List(ctx context.Context) ([]BookDTO, error)
	Update(ctx context.Context, id uint, input UpdateBookInput) (*BookDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("books repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateBookInput) (*BookDTO, error) {
	cover, err := enums.ParseBookCover(input.Cover)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cover")
	}
	if input.DailyFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily fee cannot be negative")
	}

	book, err := s.repo.Create(ctx, input.toModel(cover))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create book")
	}
	return FromModel(book), nil
}

func (s *service) Get(ctx context.Context, id uint) (*BookDTO, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return FromModel(book), nil
}

func (s *service) List(ctx context.Context) ([]BookDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list books")
	}
	out := make([]BookDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateBookInput) (*BookDTO, error) {
	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Author != nil {
		updates["author"] = strings.TrimSpace(*input.Author)
	}
	if input.Cover != nil {
		cover, err := enums.ParseBookCover(*input.Cover)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cover")
		}
		updates["cover"] = cover
	}
	if input.Inventory != nil {
		if *input.Inventory < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory cannot be negative")
		}
		updates["inventory"] = *input.Inventory
	}
	if input.DailyFee != nil {
		if input.DailyFee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily fee cannot be negative")
		}
		updates["daily_fee"] = *input.DailyFee
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update book")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete book")
	}
	return nil
}
