package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatuses lists every status an admin transition may target.
var ValidOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            string          `gorm:"size:36;not null;index" json:"user_id"`
	User              *UserProfile    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status            string          `gorm:"size:50;default:'pending'" json:"status"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ShippingAddressID uint            `gorm:"not null" json:"shipping_address_id"`
	ShippingAddress   *Address        `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"`
	PaymentIntentID   string          `gorm:"size:255" json:"payment_intent_id"`
	OrderItems        []OrderItem     `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
