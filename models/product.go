package models

import "time"

type Product struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	ShopID      string  `gorm:"index;not null" json:"shop_id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Image       string  `json:"image"`
	// Stock is informational only. The order path does not reserve or
	// decrement it, so concurrent checkouts can oversell.
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
