package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // confirmed by seller
	OrderStatusShipped   OrderStatus = "shipped"   // out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // buyer received the flowers
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled while pending

	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// DeliveryAddress is embedded into Order. FullName, Phone, AddressLine and
// City are required at checkout; Ward and District are optional.
type DeliveryAddress struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	Ward        string `json:"ward"`
	District    string `json:"district"`
	City        string `json:"city"`
}

type Order struct {
	ID                 string          `gorm:"primaryKey" json:"id"`
	OrderRef           string          `gorm:"uniqueIndex" json:"order_ref"`
	BuyerID            string          `gorm:"index;not null" json:"buyer_id"`
	ShopID             string          `gorm:"index;not null" json:"shop_id"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status             OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus      PaymentStatus   `gorm:"type:VARCHAR(20);default:'unpaid'" json:"payment_status"`
	PaymentMethod      string          `json:"payment_method"`
	DeliveryMethod     string          `json:"delivery_method"`
	DeliveryAddress    DeliveryAddress `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	DeliveryFee        float64         `json:"delivery_fee"`
	TotalProductAmount float64         `json:"total_product_amount"`
	TotalAmount        float64         `json:"total_amount"`
	Notes              string          `json:"notes"`
	PaymentProofURL    string          `json:"payment_proof_url"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OrderItem is an immutable snapshot taken at checkout. Name and price do
// not follow later catalog changes.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     string  `gorm:"index" json:"order_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}
