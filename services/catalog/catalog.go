package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/models"
)

// Service is the read-only catalog lookup used by the cart and checkout
// paths.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "product %s does not exist", id)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load product", err)
	}
	return &product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list products", err)
	}
	return products, nil
}

// GetShop resolves a shop so the access guard can check seller ownership.
func (s *Service) GetShop(ctx context.Context, id string) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "shop %s does not exist", id)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load shop", err)
	}
	return &shop, nil
}
