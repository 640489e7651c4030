package models

import "time"

// ProductReview is read-only in this service: rows are written by the
// storefront's review pipeline, this API only joins them into product
// detail and the top-rated listing.
type ProductReview struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ProductID uint         `gorm:"not null;index" json:"product_id"`
	UserID    string       `gorm:"size:36;not null" json:"user_id"`
	User      *UserProfile `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating    int          `gorm:"not null" json:"rating"` // 1..5
	Comment   string       `gorm:"type:text" json:"comment"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
