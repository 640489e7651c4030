package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StockStatusOut = "Out of Stock"
	StockStatusLow = "Low Stock"
	StockStatusIn  = "In Stock"
)

// LowStockThreshold is the inclusive upper bound for the Low Stock bucket.
const LowStockThreshold = 20

type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Slug          string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description   string          `gorm:"type:text" json:"description"`
	Sku           string          `gorm:"size:100;index" json:"sku"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	CategoryID    *uint           `gorm:"index" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Reviews       []ProductReview `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	ImageURL      string          `gorm:"size:500" json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockStatus is derived from StockQuantity and never persisted.
func (p *Product) StockStatus() string {
	return CalculateStockStatus(p.StockQuantity)
}

func CalculateStockStatus(quantity int) string {
	if quantity <= 0 {
		return StockStatusOut
	}
	if quantity <= LowStockThreshold {
		return StockStatusLow
	}
	return StockStatusIn
}

// MarshalJSON attaches the virtual status field to the serialized product.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		Status string `json:"status"`
	}{
		alias:  alias(p),
		Status: p.StockStatus(),
	})
}
