package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Shop{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&models.Shop{ID: "shop-1", SellerID: "seller-1", Name: "Rose Corner"}).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	return NewService(db)
}

func TestGetProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductInput{
		ShopID: "shop-1", Name: "Red Rose Bouquet", Price: 100000, Stock: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Red Rose Bouquet" || got.ShopID != "shop-1" || got.Price != 100000 {
		t.Fatalf("product = %+v", got)
	}

	if _, err := svc.GetProduct(ctx, "missing"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing product: err = %v, want NotFound", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, ProductInput{ShopID: "shop-1", Name: "Freebie", Price: 0}); !apperr.Is(err, apperr.KindInvalidArgument) {
		t.Errorf("zero price: err = %v, want InvalidArgument", err)
	}
	if _, err := svc.CreateProduct(ctx, ProductInput{ShopID: "ghost", Name: "Orphan", Price: 1000}); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown shop: err = %v, want NotFound", err)
	}
}

func TestUpdateProductTouchesOnlyGivenFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductInput{
		ShopID: "shop-1", Name: "Red Rose Bouquet", Description: "A dozen roses", Price: 100000, Stock: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := 120000.0
	updated, err := svc.UpdateProduct(ctx, created.ID, ProductUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 120000 {
		t.Errorf("price = %v", updated.Price)
	}
	if updated.Name != "Red Rose Bouquet" || updated.Description != "A dozen roses" || updated.Stock != 5 {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	bad := -5.0
	if _, err := svc.UpdateProduct(ctx, created.ID, ProductUpdate{Price: &bad}); !apperr.Is(err, apperr.KindInvalidArgument) {
		t.Errorf("negative price: err = %v, want InvalidArgument", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductInput{ShopID: "shop-1", Name: "Tulips", Price: 60000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteProduct(ctx, created.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second delete: err = %v, want NotFound", err)
	}
}
