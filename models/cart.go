package models

import "time"

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	BuyerID   string     `gorm:"uniqueIndex" json:"buyer_id"` // one cart per buyer
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem carries denormalized product fields so the cart renders without
// a second catalog round-trip. Prices here are display-only; checkout
// re-resolves the catalog before snapshotting.
type CartItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CartID       uint      `gorm:"index" json:"cart_id"`
	ProductID    string    `gorm:"index" json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image"`
	UnitPrice    float64   `json:"unit_price"`
	Quantity     int       `json:"quantity"`
	AddedAt      time.Time `json:"added_at"`
}
