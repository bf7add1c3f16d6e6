package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/models"
)

// ProductInput is the whitelisted create payload.
type ProductInput struct {
	ShopID      string  `json:"shop_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
}

// ProductUpdate carries only the fields an admin may change; nil means
// leave untouched. Request bodies are never merged into records wholesale.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Stock       *int     `json:"stock"`
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Price <= 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "price must be positive")
	}
	if _, err := s.GetShop(ctx, in.ShopID); err != nil {
		return nil, err
	}

	product := models.Product{
		ID:          uuid.NewString(),
		ShopID:      in.ShopID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Stock:       in.Stock,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create product", err)
	}
	return &product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductUpdate) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, apperr.New(apperr.KindInvalidArgument, "price must be positive")
		}
		updates["price"] = *in.Price
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.Stock != nil {
		updates["stock"] = *in.Stock
	}

	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update product", err)
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Newf(apperr.KindNotFound, "product %s does not exist", id)
	}
	return nil
}
