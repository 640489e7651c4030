package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/lunarbyte/go-storefront/app/services/notify"
	"github.com/lunarbyte/go-storefront/app/services/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCheckoutService(db *gorm.DB, gateway payment.Gateway) *CheckoutService {
	return NewCheckoutService(
		db,
		repositories.NewCartItemRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewAddressRepository(db),
		repositories.NewOrderRepository(db),
		repositories.NewOrderItemRepository(db),
		repositories.NewUserRepository(db),
		gateway,
		notify.NewConsoleNotifier(),
	)
}

func TestPlaceOrderSuccess(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	product := seedProduct(t, db, "Gaming Laptop", 49.99, 5)
	address := seedAddress(t, db, user.ID)
	seedCartItem(t, db, user.ID, product.ID, 3)

	svc := newCheckoutService(db, payment.NewMockGateway(0, 0))

	order, err := svc.PlaceOrder(ctx, user.ID, address.ID)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(149.97)),
		"total should be 3 x 49.99, got %s", order.TotalAmount)
	assert.True(t, strings.HasPrefix(order.PaymentIntentID, "mock_"))
	assert.Equal(t, address.ID, order.ShippingAddressID)

	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, product.ID, order.OrderItems[0].ProductID)
	assert.Equal(t, 3, order.OrderItems[0].Quantity)
	assert.True(t, order.OrderItems[0].UnitPrice.Equal(decimal.NewFromFloat(49.99)))

	// Stock was decremented and the cart emptied atomically with the order.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 2, reloaded.StockQuantity)

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)
}

func TestPlaceOrderFreezesUnitPrice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	product := seedProduct(t, db, "Desk Lamp", 25.00, 10)
	address := seedAddress(t, db, user.ID)
	seedCartItem(t, db, user.ID, product.ID, 1)

	svc := newCheckoutService(db, payment.NewMockGateway(0, 0))
	order, err := svc.PlaceOrder(ctx, user.ID, address.ID)
	require.NoError(t, err)

	// A later price change must not touch the historical order.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.NewFromInt(99)).Error)

	var item models.OrderItem
	require.NoError(t, db.First(&item, "order_id = ?", order.ID).Error)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(25)))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)

	user := seedUser(t, db)
	address := seedAddress(t, db, user.ID)

	svc := newCheckoutService(db, payment.NewMockGateway(0, 0))
	_, err := svc.PlaceOrder(context.Background(), user.ID, address.ID)
	assert.ErrorIs(t, err, helpers.ErrEmptyCart)
}

func TestPlaceOrderInvalidAddress(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	other := seedUser(t, db)
	product := seedProduct(t, db, "Mouse Pad", 9.99, 50)
	foreignAddress := seedAddress(t, db, other.ID)
	seedCartItem(t, db, user.ID, product.ID, 1)

	svc := newCheckoutService(db, payment.NewMockGateway(0, 0))

	// Another user's address reads the same as a missing one.
	_, err := svc.PlaceOrder(ctx, user.ID, foreignAddress.ID)
	assert.ErrorIs(t, err, helpers.ErrInvalidAddress)

	_, err = svc.PlaceOrder(ctx, user.ID, 99999)
	assert.ErrorIs(t, err, helpers.ErrInvalidAddress)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	product := seedProduct(t, db, "Rare Widget", 10.00, 2)
	address := seedAddress(t, db, user.ID)
	seedCartItem(t, db, user.ID, product.ID, 3)

	svc := newCheckoutService(db, payment.NewMockGateway(0, 0))

	_, err := svc.PlaceOrder(ctx, user.ID, address.ID)
	require.Error(t, err)

	var stockErr *helpers.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Rare Widget", stockErr.ProductName)
	assert.Equal(t, 2, stockErr.Available)
	assert.ErrorIs(t, err, helpers.ErrInsufficientStock)

	assertCheckoutUntouched(t, db, user.ID, product.ID, 2, 1)
}

func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Last Unit", 10.00, 1)

	first := seedUser(t, db)
	firstAddress := seedAddress(t, db, first.ID)
	seedCartItem(t, db, first.ID, product.ID, 1)

	second := seedUser(t, db)
	secondAddress := seedAddress(t, db, second.ID)
	seedCartItem(t, db, second.ID, product.ID, 1)

	svc := newCheckoutService(db, payment.NewMockGateway(0, 0))

	type placement struct {
		order *models.Order
		err   error
	}
	results := make(chan placement, 2)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		order, err := svc.PlaceOrder(ctx, first.ID, firstAddress.ID)
		results <- placement{order, err}
	}()
	go func() {
		defer wg.Done()
		order, err := svc.PlaceOrder(ctx, second.ID, secondAddress.ID)
		results <- placement{order, err}
	}()
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for res := range results {
		if res.err == nil {
			require.NotNil(t, res.order)
			succeeded++
			continue
		}
		assert.ErrorIs(t, res.err, helpers.ErrInsufficientStock)
		rejected++
	}

	// Exactly one placement wins the last unit.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 0, reloaded.StockQuantity)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount)
}

func TestPlaceOrderPaymentDeclined(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	product := seedProduct(t, db, "Keyboard", 30.00, 10)
	address := seedAddress(t, db, user.ID)
	seedCartItem(t, db, user.ID, product.ID, 2)

	svc := newCheckoutService(db, payment.NewMockGateway(0, 1.0))

	_, err := svc.PlaceOrder(ctx, user.ID, address.ID)
	assert.ErrorIs(t, err, helpers.ErrPaymentFailed)

	assertCheckoutUntouched(t, db, user.ID, product.ID, 10, 1)
}

// assertCheckoutUntouched verifies a failed placement rolled back
// completely: stock unchanged, cart intact, no order rows.
func assertCheckoutUntouched(t *testing.T, db *gorm.DB, userID string, productID uint, wantStock int, wantCartItems int64) {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	assert.Equal(t, wantStock, product.StockQuantity)

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error)
	assert.Equal(t, wantCartItems, cartCount)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}
