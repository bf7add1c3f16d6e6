package order

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/auth"
	"github.com/hainam0320/EXE201-sub000/events"
	"github.com/hainam0320/EXE201-sub000/idempotency"
	"github.com/hainam0320/EXE201-sub000/models"
)

// Catalog is the slice of the catalog service checkout needs.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Service assembles orders from cart contents and governs their status and
// payment-status transitions. Each mutation is a single storage write; two
// concurrent updates to the same order interleave last-write-wins.
type Service struct {
	db      *gorm.DB
	catalog Catalog
	guard   auth.Guard
	idem    idempotency.Store
	pub     events.Publisher
	log     *slog.Logger
}

func NewService(db *gorm.DB, catalog Catalog, guard auth.Guard, idem idempotency.Store, pub events.Publisher, log *slog.Logger) *Service {
	if idem == nil {
		idem = idempotency.Disabled{}
	}
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{db: db, catalog: catalog, guard: guard, idem: idem, pub: pub, log: log}
}

// Checkout creates one pending, unpaid order per shop represented in the
// line items. With an idempotency key, a retried checkout replays the
// originally created orders instead of creating duplicates; replayed reports
// whether that happened. Checkout does NOT clear the buyer's cart - the
// handler does that only after the orders are durably created.
func (s *Service) Checkout(ctx context.Context, buyerID string, in CheckoutInput, idemKey string) (orders []models.Order, replayed bool, err error) {
	idemKey = strings.TrimSpace(idemKey)
	if idemKey != "" {
		if val, ok, err := s.idem.Recall(ctx, buyerID, idemKey); err == nil && ok {
			prior, err := s.loadOrdersByID(ctx, strings.Split(val, ","))
			if err != nil {
				return nil, false, err
			}
			return prior, true, nil
		}
	}

	// Resolve and validate before taking the idempotency lock: a rejected
	// checkout never holds the key, so the buyer can retry with it.
	products := make(map[string]*models.Product, len(in.Items))
	for _, li := range in.Items {
		if _, ok := products[li.ProductID]; ok {
			continue
		}
		product, err := s.catalog.GetProduct(ctx, li.ProductID)
		if err != nil {
			return nil, false, err
		}
		products[li.ProductID] = product
	}

	assembled, err := assembleOrders(buyerID, in, products)
	if err != nil {
		return nil, false, err
	}

	if idemKey != "" {
		ok, err := s.idem.TryLock(ctx, buyerID, idemKey)
		if err != nil {
			return nil, false, apperr.Wrap(apperr.KindInternal, "idempotency store unavailable", err)
		}
		if !ok {
			return nil, false, apperr.New(apperr.KindConflict, "a checkout with this idempotency key is already in progress")
		}
	}

	// One transaction per checkout: the order rows and their item snapshots
	// land together or not at all.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ord := range assembled {
			if err := tx.Create(ord).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.releaseLock(ctx, buyerID, idemKey)
		return nil, false, apperr.Wrap(apperr.KindInternal, "failed to create order", err)
	}

	ids := make([]string, 0, len(assembled))
	for _, ord := range assembled {
		ids = append(ids, ord.ID)
		orders = append(orders, *ord)
		s.publish(ctx, events.TypeOrderCreated, ord)
	}
	if idemKey != "" {
		if err := s.idem.Remember(ctx, buyerID, idemKey, strings.Join(ids, ",")); err != nil {
			// Without the stored result a replay is impossible; drop the
			// lock so a retry is not stuck behind it until the TTL runs out.
			s.log.Warn("failed to remember idempotency key", "buyer_id", buyerID, "error", err)
			s.releaseLock(ctx, buyerID, idemKey)
		}
	}
	return orders, false, nil
}

func (s *Service) releaseLock(ctx context.Context, buyerID, idemKey string) {
	if idemKey == "" {
		return
	}
	if err := s.idem.Release(ctx, buyerID, idemKey); err != nil {
		s.log.Warn("failed to release idempotency lock", "buyer_id", buyerID, "error", err)
	}
}

// GetOrder is readable by the owning buyer, the owning seller and admins.
func (s *Service) GetOrder(ctx context.Context, caller auth.Identity, orderID string) (*models.Order, error) {
	ord, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != caller.ID && !s.guard.Authorize(caller, models.RoleAdmin) && !s.isOwningSeller(ctx, caller, ord) {
		return nil, apperr.New(apperr.KindForbidden, "you do not have access to this order")
	}
	return ord, nil
}

func (s *Service) ListBuyerOrders(ctx context.Context, buyerID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list orders", err)
	}
	return orders, nil
}

// ListShopOrders returns the orders of every shop the caller owns.
func (s *Service) ListShopOrders(ctx context.Context, sellerID string) ([]models.Order, error) {
	var shopIDs []string
	err := s.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("seller_id = ?", sellerID).
		Pluck("id", &shopIDs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to resolve seller shops", err)
	}
	if len(shopIDs) == 0 {
		return nil, nil
	}

	var orders []models.Order
	err = s.db.WithContext(ctx).
		Where("shop_id IN ?", shopIDs).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list shop orders", err)
	}
	return orders, nil
}

func (s *Service) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list orders", err)
	}
	return orders, nil
}

// SetStatus moves the order to any status: the storefront deliberately
// leaves the staff-facing transition unconstrained. Allowed for admins and
// the owning seller.
func (s *Service) SetStatus(ctx context.Context, caller auth.Identity, orderID, status string) (*models.Order, error) {
	ord, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !s.guard.Authorize(caller, models.RoleAdmin) && !s.isOwningSeller(ctx, caller, ord) {
		return nil, apperr.New(apperr.KindForbidden, "only an admin or the shop owner may update order status")
	}
	newStatus, err := ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.updateOrder(ctx, ord, map[string]any{"status": newStatus}); err != nil {
		return nil, err
	}
	ord.Status = newStatus
	s.publish(ctx, events.TypeOrderStatusChanged, ord)
	return ord, nil
}

// Cancel is the buyer-facing transition: permitted only while the order is
// still pending. Admins may use it under the same precondition; forcing a
// later order to cancelled goes through SetStatus.
func (s *Service) Cancel(ctx context.Context, caller auth.Identity, orderID string) (*models.Order, error) {
	ord, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != caller.ID && !s.guard.Authorize(caller, models.RoleAdmin) {
		return nil, apperr.New(apperr.KindForbidden, "only the buyer or an admin may cancel this order")
	}
	if !canBuyerCancel(ord.Status) {
		return nil, apperr.New(apperr.KindInvalidState, "order can no longer be cancelled").
			WithDetail("current_status", string(ord.Status))
	}
	if err := s.updateOrder(ctx, ord, map[string]any{"status": models.OrderStatusCancelled}); err != nil {
		return nil, err
	}
	ord.Status = models.OrderStatusCancelled
	s.publish(ctx, events.TypeOrderStatusChanged, ord)
	return ord, nil
}

// SetPaymentStatus is the staff-facing payment transition (admin or owning
// seller), e.g. marking a bank transfer failed or refunded.
func (s *Service) SetPaymentStatus(ctx context.Context, caller auth.Identity, orderID, status string) (*models.Order, error) {
	ord, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !s.guard.Authorize(caller, models.RoleAdmin) && !s.isOwningSeller(ctx, caller, ord) {
		return nil, apperr.New(apperr.KindForbidden, "only an admin or the shop owner may update payment status")
	}
	newStatus, err := ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.updateOrder(ctx, ord, map[string]any{"payment_status": newStatus}); err != nil {
		return nil, err
	}
	ord.PaymentStatus = newStatus
	s.publish(ctx, events.TypeOrderPaymentChanged, ord)
	return ord, nil
}

// AuthorizePaymentProof checks that the order exists and the caller is the
// owning buyer. Handlers call it before storing the uploaded file so a
// rejected request leaves nothing on disk.
func (s *Service) AuthorizePaymentProof(ctx context.Context, caller auth.Identity, orderID string) error {
	ord, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if ord.BuyerID != caller.ID {
		return apperr.New(apperr.KindForbidden, "only the buyer may attach payment proof")
	}
	return nil
}

// AttachPaymentProof stores the uploaded transfer-bill reference on the
// order. Only the owning buyer may attach proof; marking the order paid is
// a separate explicit call.
func (s *Service) AttachPaymentProof(ctx context.Context, caller auth.Identity, orderID, proofURL string) (*models.Order, error) {
	ord, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != caller.ID {
		return nil, apperr.New(apperr.KindForbidden, "only the buyer may attach payment proof")
	}
	if proofURL == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "payment proof reference is required")
	}
	if err := s.updateOrder(ctx, ord, map[string]any{"payment_proof_url": proofURL}); err != nil {
		return nil, err
	}
	ord.PaymentProofURL = proofURL
	return ord, nil
}

// MarkPaid sets the payment status to paid on the buyer's say-so; staff can
// still move it to failed or refunded afterwards via SetPaymentStatus.
func (s *Service) MarkPaid(ctx context.Context, caller auth.Identity, orderID string) (*models.Order, error) {
	ord, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != caller.ID {
		return nil, apperr.New(apperr.KindForbidden, "only the buyer may mark this order paid")
	}
	if err := s.updateOrder(ctx, ord, map[string]any{"payment_status": models.PaymentStatusPaid}); err != nil {
		return nil, err
	}
	ord.PaymentStatus = models.PaymentStatusPaid
	s.publish(ctx, events.TypeOrderPaymentChanged, ord)
	return ord, nil
}

func (s *Service) loadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var ord models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? OR order_ref = ?", orderID, orderID).
		First(&ord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load order", err)
	}
	return &ord, nil
}

func (s *Service) loadOrdersByID(ctx context.Context, ids []string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Preload("Items").
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load orders", err)
	}
	return orders, nil
}

func (s *Service) updateOrder(ctx context.Context, ord *models.Order, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", ord.ID).
		Updates(fields).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update order", err)
	}
	return nil
}

func (s *Service) isOwningSeller(ctx context.Context, caller auth.Identity, ord *models.Order) bool {
	if !s.guard.Authorize(caller, models.RoleSeller) {
		return false
	}
	var shop models.Shop
	if err := s.db.WithContext(ctx).First(&shop, "id = ?", ord.ShopID).Error; err != nil {
		return false
	}
	return shop.SellerID == caller.ID
}

func (s *Service) publish(ctx context.Context, eventType string, ord *models.Order) {
	ev := events.OrderEvent{
		Type:          eventType,
		OrderID:       ord.ID,
		OrderRef:      ord.OrderRef,
		BuyerID:       ord.BuyerID,
		ShopID:        ord.ShopID,
		Status:        string(ord.Status),
		PaymentStatus: string(ord.PaymentStatus),
		At:            time.Now(),
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish order event", "type", eventType, "order_id", ord.ID, "error", err)
	}
}
