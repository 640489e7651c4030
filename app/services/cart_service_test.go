package services

import (
	"context"
	"testing"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(
		repositories.NewCartItemRepository(db),
		repositories.NewProductRepository(db),
	)
}

func TestCartAddItemAndTotals(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	laptop := seedProduct(t, db, "Laptop", 100.00, 10)
	mouse := seedProduct(t, db, "Mouse", 25.50, 10)

	svc := newCartService(db)

	_, err := svc.AddItem(ctx, user.ID, laptop.ID, 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, user.ID, mouse.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, cart.ItemCount)
	assert.True(t, cart.Total.Equal(decimal.NewFromFloat(225.50)), "got total %s", cart.Total)
}

func TestCartAddItemMergesQuantity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	product := seedProduct(t, db, "Laptop", 100.00, 10)

	svc := newCartService(db)

	_, err := svc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)

	// One line per product, quantities merged.
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartAddItemStockGuards(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	depleted := seedProduct(t, db, "Sold Out", 10.00, 0)
	scarce := seedProduct(t, db, "Scarce", 10.00, 4)

	svc := newCartService(db)

	_, err := svc.AddItem(ctx, user.ID, depleted.ID, 1)
	assert.ErrorIs(t, err, helpers.ErrOutOfStock)

	_, err = svc.AddItem(ctx, user.ID, 99999, 1)
	assert.ErrorIs(t, err, helpers.ErrNotFound)

	// The combined quantity across adds must still fit current stock.
	_, err = svc.AddItem(ctx, user.ID, scarce.ID, 3)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, scarce.ID, 2)

	var stockErr *helpers.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Available)
}

func TestCartUpdateItem(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	stranger := seedUser(t, db)
	product := seedProduct(t, db, "Laptop", 100.00, 5)
	item := seedCartItem(t, db, user.ID, product.ID, 1)

	svc := newCartService(db)

	cart, err := svc.UpdateItem(ctx, user.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, user.ID, item.ID, 6)
	var stockErr *helpers.StockError
	assert.ErrorAs(t, err, &stockErr)

	// Ownership is enforced; other users cannot see the row.
	_, err = svc.UpdateItem(ctx, stranger.ID, item.ID, 1)
	assert.ErrorIs(t, err, helpers.ErrNotFound)
}

func TestCartRemoveAndClear(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	laptop := seedProduct(t, db, "Laptop", 100.00, 5)
	mouse := seedProduct(t, db, "Mouse", 20.00, 5)
	item := seedCartItem(t, db, user.ID, laptop.ID, 1)
	seedCartItem(t, db, user.ID, mouse.ID, 1)

	svc := newCartService(db)

	cart, err := svc.RemoveItem(ctx, user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount)

	_, err = svc.RemoveItem(ctx, user.ID, item.ID)
	assert.ErrorIs(t, err, helpers.ErrNotFound)

	require.NoError(t, svc.Clear(ctx, user.ID))
	cart, err = svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}
