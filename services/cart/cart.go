package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/models"
)

// Catalog is the slice of the catalog service the cart needs.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Service owns the per-buyer cart. Mutations are single storage writes with
// no concurrency guard: two simultaneous updates to the same cart race and
// the last write wins. Callers must not assume exactly-once semantics under
// retried requests.
type Service struct {
	db      *gorm.DB
	catalog Catalog
}

func NewService(db *gorm.DB, catalog Catalog) *Service {
	return &Service{db: db, catalog: catalog}
}

// GetOrCreateCart returns the buyer's cart, lazily creating an empty one.
// Calling it twice with no mutation in between returns an equal cart.
func (s *Service) GetOrCreateCart(ctx context.Context, buyerID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{BuyerID: buyerID}
		if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to create cart", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load cart", err)
	}
	return &cart, nil
}

// AddItem validates the product and quantity, then merges into an existing
// line item or appends a new one. Product name, image and price are copied
// onto the line for display.
func (s *Service) AddItem(ctx context.Context, buyerID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "quantity must be positive")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreateCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			CartID:       cart.ID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.Image,
			UnitPrice:    product.Price,
			Quantity:     quantity,
			AddedAt:      time.Now(),
		}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to add item to cart", err)
		}
	case err != nil:
		return nil, apperr.Wrap(apperr.KindInternal, "failed to fetch cart item", err)
	default:
		item.Quantity += quantity
		item.AddedAt = time.Now()
		if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to update cart item", err)
		}
	}

	return s.GetOrCreateCart(ctx, buyerID)
}

// UpdateItemQuantity sets the line quantity, removing the line when the new
// quantity is zero or negative. Unlike AddItem it requires the line to exist.
func (s *Service) UpdateItemQuantity(ctx context.Context, buyerID, productID string, quantity int) (*models.Cart, error) {
	cart, err := s.findCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "product %s is not in the cart", productID)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to fetch cart item", err)
	}

	if quantity <= 0 {
		if err := s.db.WithContext(ctx).Delete(&item).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to remove cart item", err)
		}
	} else {
		item.Quantity = quantity
		item.AddedAt = time.Now()
		if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to update cart item", err)
		}
	}

	return s.GetOrCreateCart(ctx, buyerID)
}

// RemoveItem deletes the line if present. Removing an absent item is a
// no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, buyerID, productID string) error {
	cart, err := s.GetOrCreateCart(ctx, buyerID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to remove cart item", err)
	}
	return nil
}

// Clear empties the cart's line items. The cart row itself survives.
func (s *Service) Clear(ctx context.Context, buyerID string) error {
	cart, err := s.GetOrCreateCart(ctx, buyerID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Where("cart_id = ?", cart.ID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to clear cart", err)
	}
	return nil
}

func (s *Service) findCart(ctx context.Context, buyerID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Where("buyer_id = ?", buyerID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "cart not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load cart", err)
	}
	return &cart, nil
}
