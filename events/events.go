package events

import (
	"context"
	"time"
)

const (
	TypeOrderCreated        = "order.created"
	TypeOrderStatusChanged  = "order.status_changed"
	TypeOrderPaymentChanged = "order.payment_changed"
)

// OrderEvent is the JSON payload published on every order mutation and
// fanned out to dashboard websocket clients.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	OrderRef      string    `json:"order_ref"`
	BuyerID       string    `json:"buyer_id"`
	ShopID        string    `json:"shop_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	At            time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// Noop is used when no brokers are configured, and in tests.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }

// Multi fans a single event out to several publishers. Publish errors from
// one sink do not stop the others; the first error is returned.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev OrderEvent) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
