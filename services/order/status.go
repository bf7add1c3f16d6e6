package order

import (
	"strings"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/models"
)

// ParseOrderStatus maps a request string to a known order status.
func ParseOrderStatus(s string) (models.OrderStatus, error) {
	switch strings.ToLower(s) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", apperr.Newf(apperr.KindInvalidArgument, "invalid order status %q", s)
	}
}

// ParsePaymentStatus maps a request string to a known payment status.
func ParsePaymentStatus(s string) (models.PaymentStatus, error) {
	switch strings.ToLower(s) {
	case string(models.PaymentStatusUnpaid):
		return models.PaymentStatusUnpaid, nil
	case string(models.PaymentStatusPaid):
		return models.PaymentStatusPaid, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	case string(models.PaymentStatusRefunded):
		return models.PaymentStatusRefunded, nil
	default:
		return "", apperr.Newf(apperr.KindInvalidArgument, "invalid payment status %q", s)
	}
}

// canBuyerCancel: buyers (and admins using the cancel endpoint) may cancel
// only while the order is still pending. Admins and the owning seller can
// move status freely through SetStatus, which carries no transition guard.
func canBuyerCancel(current models.OrderStatus) bool {
	return current == models.OrderStatusPending
}
