package books

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/dkushnir/library-service-api/pkg/errors"
)

func newServiceWithDB(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupBooksTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func TestServiceCreateAndGet(t *testing.T) {
	svc, _ := newServiceWithDB(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBookInput{
		Title:     "Kobzar",
		Author:    "Taras Shevchenko",
		Cover:     "HARD",
		Inventory: 4,
		DailyFee:  decimal.RequireFromString("1.25"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "HARD", created.Cover)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Title, got.Title)
	require.True(t, decimal.RequireFromString("1.25").Equal(got.DailyFee))
}

func TestServiceCreateRejectsBadCover(t *testing.T) {
	svc, _ := newServiceWithDB(t)

	_, err := svc.Create(context.Background(), CreateBookInput{
		Title:    "Kobzar",
		Author:   "Taras Shevchenko",
		Cover:    "LEATHER",
		DailyFee: decimal.Zero,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceUpdatePartial(t *testing.T) {
	svc, _ := newServiceWithDB(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBookInput{
		Title:     "Kobzar",
		Author:    "Taras Shevchenko",
		Cover:     "HARD",
		Inventory: 4,
		DailyFee:  decimal.RequireFromString("1.25"),
	})
	require.NoError(t, err)

	newInventory := 9
	updated, err := svc.Update(ctx, created.ID, UpdateBookInput{Inventory: &newInventory})
	require.NoError(t, err)
	require.Equal(t, 9, updated.Inventory)
	require.Equal(t, "Kobzar", updated.Title, "untouched fields must survive a partial update")

	negative := -1
	_, err = svc.Update(ctx, created.ID, UpdateBookInput{Inventory: &negative})
	require.Error(t, err)
}

func TestServiceGetUnknownBook(t *testing.T) {
	svc, _ := newServiceWithDB(t)

	_, err := svc.Get(context.Background(), 12345)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newServiceWithDB(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateBookInput{
		Title:     "Kobzar",
		Author:    "Taras Shevchenko",
		Cover:     "SOFT",
		Inventory: 1,
		DailyFee:  decimal.Zero,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.Delete(ctx, created.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
