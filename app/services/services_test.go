package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/models/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a dedicated in-memory database per test. The single
// connection keeps every query on the same memory instance.
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

func seedUser(t *testing.T, db *gorm.DB) *models.UserProfile {
	t.Helper()
	user := &models.UserProfile{
		ID:        uuid.NewString(),
		Email:     uuid.NewString()[:8] + "@example.com",
		FirstName: "Test",
		LastName:  "Shopper",
		Role:      models.RoleCustomer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Slug:          helpers.MakeSlug(name + "-" + uuid.NewString()[:6]),
		Price:         decimal.NewFromFloat(price),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedAddress(t *testing.T, db *gorm.DB, userID string) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:       userID,
		AddressLine1: "1 Test Street",
		City:         "Springfield",
		PostalCode:   "12345",
		Country:      "US",
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

func seedReview(t *testing.T, db *gorm.DB, productID uint, userID string, rating int, comment string) *models.ProductReview {
	t.Helper()
	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}

func seedCartItem(t *testing.T, db *gorm.DB, userID string, productID uint, qty int) *models.CartItem {
	t.Helper()
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}
