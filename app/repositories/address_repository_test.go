package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/models/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func newAddress(userID string, isDefault bool) *models.Address {
	return &models.Address{
		UserID:       userID,
		AddressLine1: "1 Test Street",
		City:         "Springfield",
		PostalCode:   "12345",
		Country:      "US",
		IsDefault:    isDefault,
	}
}

func countDefaults(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&count).Error)
	return count
}

func TestAddressAtMostOneDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAddressRepository(db)
	userID := uuid.NewString()

	first := newAddress(userID, true)
	require.NoError(t, repo.Create(ctx, first))

	// Creating a second default displaces the first.
	second := newAddress(userID, true)
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, int64(1), countDefaults(t, db, userID))

	reloaded, err := repo.FindByIDForUser(ctx, first.ID, userID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)

	// SetDefault moves the flag back.
	promoted, err := repo.SetDefault(ctx, first.ID, userID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)
	assert.Equal(t, int64(1), countDefaults(t, db, userID))

	// Another user's defaults are untouched by all of this.
	otherID := uuid.NewString()
	require.NoError(t, repo.Create(ctx, newAddress(otherID, true)))
	require.NoError(t, repo.Create(ctx, newAddress(userID, true)))
	assert.Equal(t, int64(1), countDefaults(t, db, otherID))
}

func TestAddressSetDefaultOwnership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAddressRepository(db)

	owner := uuid.NewString()
	address := newAddress(owner, false)
	require.NoError(t, repo.Create(ctx, address))

	_, err := repo.SetDefault(ctx, address.ID, uuid.NewString())
	assert.ErrorIs(t, err, helpers.ErrNotFound)
}

func TestAddressDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAddressRepository(db)
	userID := uuid.NewString()

	free := newAddress(userID, false)
	referenced := newAddress(userID, false)
	require.NoError(t, repo.Create(ctx, free))
	require.NoError(t, repo.Create(ctx, referenced))

	require.NoError(t, db.Create(&models.Order{
		UserID:            userID,
		Status:            models.OrderStatusPending,
		TotalAmount:       decimal.NewFromInt(10),
		ShippingAddressID: referenced.ID,
	}).Error)

	// An address on an order must survive for order history.
	err := repo.Delete(ctx, referenced.ID, userID)
	assert.ErrorIs(t, err, helpers.ErrAddressInUse)

	require.NoError(t, repo.Delete(ctx, free.ID, userID))
	err = repo.Delete(ctx, free.ID, userID)
	assert.ErrorIs(t, err, helpers.ErrNotFound)
}
