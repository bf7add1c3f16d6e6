package models

import "time"

// Shop is the minimal seller-owned storefront record the order path needs:
// enough to resolve which seller owns an order. Shop profile management
// lives outside this service.
type Shop struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	SellerID  string    `gorm:"index;not null" json:"seller_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
