package services

import (
	"context"
	"testing"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/lunarbyte/go-storefront/app/services/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(
		repositories.NewOrderRepository(db),
		repositories.NewUserRepository(db),
		notify.NewConsoleNotifier(),
	)
}

func seedOrder(t *testing.T, db *gorm.DB, userID string, addressID uint, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:            userID,
		Status:            status,
		TotalAmount:       decimal.NewFromInt(42),
		ShippingAddressID: addressID,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusPaid, true},
		{models.OrderStatusPending, models.OrderStatusShipped, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPaid, models.OrderStatusProcessing, true},
		{models.OrderStatusPaid, models.OrderStatusPending, false},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusProcessing, models.OrderStatusPaid, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusProcessing, false},
		{models.OrderStatusShipped, models.OrderStatusCancelled, true},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusPaid, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, canTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestMarkPaid(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	address := seedAddress(t, db, user.ID)
	pending := seedOrder(t, db, user.ID, address.ID, models.OrderStatusPending)

	svc := newOrderService(db)

	order, err := svc.MarkPaid(ctx, pending.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	// Paying twice is rejected.
	_, err = svc.MarkPaid(ctx, pending.ID, user.ID)
	assert.ErrorIs(t, err, helpers.ErrOrderAlreadyPaid)

	shipped := seedOrder(t, db, user.ID, address.ID, models.OrderStatusShipped)
	_, err = svc.MarkPaid(ctx, shipped.ID, user.ID)
	assert.ErrorIs(t, err, helpers.ErrInvalidStatus)

	// Another user's order reads as missing.
	stranger := seedUser(t, db)
	fresh := seedOrder(t, db, user.ID, address.ID, models.OrderStatusPending)
	_, err = svc.MarkPaid(ctx, fresh.ID, stranger.ID)
	assert.ErrorIs(t, err, helpers.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	address := seedAddress(t, db, user.ID)
	order := seedOrder(t, db, user.ID, address.ID, models.OrderStatusPaid)

	svc := newOrderService(db)

	updated, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	// Moving backwards is rejected.
	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusPaid)
	assert.ErrorIs(t, err, helpers.ErrInvalidStatus)

	// Unknown statuses never reach the database.
	_, err = svc.UpdateStatus(ctx, order.ID, "teleported")
	assert.ErrorIs(t, err, helpers.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, 99999, models.OrderStatusShipped)
	assert.ErrorIs(t, err, helpers.ErrNotFound)
}

func TestGetForUserAndMyOrders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db)
	stranger := seedUser(t, db)
	address := seedAddress(t, db, user.ID)
	order := seedOrder(t, db, user.ID, address.ID, models.OrderStatusPending)
	seedOrder(t, db, user.ID, address.ID, models.OrderStatusPaid)

	svc := newOrderService(db)

	found, err := svc.GetForUser(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = svc.GetForUser(ctx, order.ID, stranger.ID)
	assert.ErrorIs(t, err, helpers.ErrNotFound)

	mine, err := svc.MyOrders(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := svc.MyOrders(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
