package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/models"
)

type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutInput is the whitelisted set of fields a buyer may supply at
// checkout. Prices are never taken from the client.
type CheckoutInput struct {
	Items           []LineItem             `json:"items"`
	DeliveryAddress models.DeliveryAddress `json:"delivery_address"`
	PaymentMethod   string                 `json:"payment_method"`
	DeliveryMethod  string                 `json:"delivery_method"`
	DeliveryFee     float64                `json:"delivery_fee"`
	Notes           string                 `json:"notes"`
}

func validateAddress(a models.DeliveryAddress) error {
	switch {
	case a.FullName == "":
		return apperr.New(apperr.KindInvalidArgument, "delivery address requires a full name")
	case a.Phone == "":
		return apperr.New(apperr.KindInvalidArgument, "delivery address requires a phone number")
	case a.AddressLine == "":
		return apperr.New(apperr.KindInvalidArgument, "delivery address requires an address line")
	case a.City == "":
		return apperr.New(apperr.KindInvalidArgument, "delivery address requires a city")
	}
	return nil
}

// assembleOrders turns validated line items plus resolved products into
// order snapshots, one order per shop. Line items are grouped by the shop of
// their product, in first-appearance order; duplicate product entries are
// merged. Product name and current unit price are copied into the snapshot
// so later catalog changes do not touch existing orders. The delivery fee is
// attached to the first shop's order and zero for the rest.
func assembleOrders(buyerID string, in CheckoutInput, products map[string]*models.Product) ([]*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "cannot place an order with an empty cart")
	}
	if err := validateAddress(in.DeliveryAddress); err != nil {
		return nil, err
	}
	if in.DeliveryFee < 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "delivery fee cannot be negative")
	}

	merged := make(map[string]int, len(in.Items))
	var productOrder []string
	for _, li := range in.Items {
		if li.Quantity <= 0 {
			return nil, apperr.Newf(apperr.KindInvalidArgument, "quantity for product %s must be positive", li.ProductID)
		}
		if _, seen := merged[li.ProductID]; !seen {
			productOrder = append(productOrder, li.ProductID)
		}
		merged[li.ProductID] += li.Quantity
	}

	byShop := make(map[string]*models.Order)
	var shopOrder []string
	now := time.Now()

	for _, pid := range productOrder {
		product, ok := products[pid]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "product %s does not exist", pid)
		}

		ord, ok := byShop[product.ShopID]
		if !ok {
			ord = &models.Order{
				ID:              uuid.NewString(),
				OrderRef:        newOrderRef(),
				BuyerID:         buyerID,
				ShopID:          product.ShopID,
				Status:          models.OrderStatusPending,
				PaymentStatus:   models.PaymentStatusUnpaid,
				PaymentMethod:   in.PaymentMethod,
				DeliveryMethod:  in.DeliveryMethod,
				DeliveryAddress: in.DeliveryAddress,
				Notes:           in.Notes,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			byShop[product.ShopID] = ord
			shopOrder = append(shopOrder, product.ShopID)
		}

		qty := merged[pid]
		lineTotal := product.Price * float64(qty)
		ord.Items = append(ord.Items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    qty,
			UnitPrice:   product.Price,
			TotalPrice:  lineTotal,
		})
		ord.TotalProductAmount += lineTotal
	}

	orders := make([]*models.Order, 0, len(shopOrder))
	for i, shopID := range shopOrder {
		ord := byShop[shopID]
		if i == 0 {
			ord.DeliveryFee = in.DeliveryFee
		}
		ord.TotalAmount = ord.TotalProductAmount + ord.DeliveryFee
		orders = append(orders, ord)
	}
	return orders, nil
}

func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
