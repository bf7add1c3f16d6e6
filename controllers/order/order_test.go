package orderControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/hainam0320/EXE201-sub000/auth"
	"github.com/hainam0320/EXE201-sub000/events"
	"github.com/hainam0320/EXE201-sub000/models"
	"github.com/hainam0320/EXE201-sub000/routes"
	cartService "github.com/hainam0320/EXE201-sub000/services/cart"
	catalogService "github.com/hainam0320/EXE201-sub000/services/catalog"
	orderService "github.com/hainam0320/EXE201-sub000/services/order"
	"github.com/hainam0320/EXE201-sub000/uploads"
)

type testApp struct {
	router     *gin.Engine
	guard      *auth.JWTGuard
	db         *gorm.DB
	uploadsDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{}, &models.Shop{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := db.Create(&models.Shop{ID: "shop-1", SellerID: "seller-1", Name: "Rose Corner"}).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}
	products := []models.Product{
		{ID: "p1", ShopID: "shop-1", Name: "Red Rose Bouquet", Price: 100000, Stock: 10},
		{ID: "p2", ShopID: "shop-1", Name: "White Lily Basket", Price: 50000, Stock: 10},
	}
	if err := db.Create(&products).Error; err != nil {
		t.Fatalf("seed products: %v", err)
	}

	guard := auth.NewJWTGuard("test-secret", "bloomshop", time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := catalogService.NewService(db)
	carts := cartService.NewService(db, catalog)
	orders := orderService.NewService(db, catalog, guard, nil, events.Noop{}, log)

	uploadsDir := t.TempDir()
	r := gin.New()
	routes.SetupRoutes(r, routes.Deps{
		Guard:   guard,
		Carts:   carts,
		Orders:  orders,
		Catalog: catalog,
		Uploads: uploads.NewDiskStore(uploadsDir, "http://test"),
		Hub:     events.NewHub(),
	})
	return &testApp{router: r, guard: guard, db: db, uploadsDir: uploadsDir}
}

func (a *testApp) token(t *testing.T, id string, role models.Role) string {
	t.Helper()
	token, err := a.guard.IssueToken(auth.Identity{ID: id, Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func checkoutBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product_id": "p1", "quantity": 2},
			{"product_id": "p2", "quantity": 1},
		},
		"delivery_address": map[string]any{
			"full_name":    "Nguyen Thi Lan",
			"phone":        "0901234567",
			"address_line": "12 Hoa Hong Street",
			"city":         "Da Nang",
		},
		"payment_method": "bank_transfer",
		"delivery_fee":   20000,
	}
}

func TestCheckoutFlowClearsCart(t *testing.T) {
	app := newTestApp(t)
	buyer := app.token(t, "buyer-1", models.RoleBuyer)

	// Fill the cart first.
	w := app.do(t, http.MethodPost, "/cart/add", buyer, map[string]any{"product_id": "p1", "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("cart add = %d: %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodPost, "/orders", buyer, checkoutBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Orders) != 1 {
		t.Fatalf("orders = %d", len(resp.Orders))
	}
	if resp.Orders[0].TotalAmount != 270000 {
		t.Fatalf("total = %v, want 270000", resp.Orders[0].TotalAmount)
	}

	// The cart is cleared after a durable checkout.
	w = app.do(t, http.MethodGet, "/cart", buyer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart = %d", w.Code)
	}
	var cart models.Cart
	if err := json.Unmarshal(w.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart still has %d items after checkout", len(cart.Items))
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	app := newTestApp(t)
	buyer := app.token(t, "buyer-1", models.RoleBuyer)

	body := checkoutBody()
	body["items"] = []map[string]any{}
	w := app.do(t, http.MethodPost, "/orders", buyer, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}

	var n int64
	app.db.Model(&models.Order{}).Count(&n)
	if n != 0 {
		t.Fatalf("order rows created: %d", n)
	}
}

func TestCancelRejectedWithCurrentStatus(t *testing.T) {
	app := newTestApp(t)
	buyer := app.token(t, "buyer-1", models.RoleBuyer)
	adminTok := app.token(t, "admin-1", models.RoleAdmin)

	w := app.do(t, http.MethodPost, "/orders", buyer, checkoutBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout = %d", w.Code)
	}
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	orderID := resp.Orders[0].ID

	w = app.do(t, http.MethodPut, fmt.Sprintf("/orders/%s/status", orderID), adminTok, map[string]any{"status": "shipped"})
	if w.Code != http.StatusOK {
		t.Fatalf("set status = %d: %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodPost, fmt.Sprintf("/orders/%s/cancel", orderID), buyer, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("cancel = %d, want 409: %s", w.Code, w.Body.String())
	}
	var errResp struct {
		Error struct {
			Code          string `json:"code"`
			CurrentStatus string `json:"current_status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errResp.Error.Code != "invalid_state" || errResp.Error.CurrentStatus != "shipped" {
		t.Fatalf("error body = %s", w.Body.String())
	}
}

func (a *testApp) doUpload(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "bill.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("fake-image-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func savedUploads(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk uploads dir: %v", err)
	}
	return count
}

func TestPaymentProofRejectedUploadLeavesNoFile(t *testing.T) {
	app := newTestApp(t)
	buyer := app.token(t, "buyer-1", models.RoleBuyer)
	other := app.token(t, "buyer-2", models.RoleBuyer)

	w := app.do(t, http.MethodPost, "/orders", buyer, checkoutBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout = %d", w.Code)
	}
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	orderID := resp.Orders[0].ID

	if w := app.doUpload(t, "/orders/"+orderID+"/payment-proof", other); w.Code != http.StatusForbidden {
		t.Fatalf("non-owner upload = %d, want 403: %s", w.Code, w.Body.String())
	}
	if w := app.doUpload(t, "/orders/missing/payment-proof", buyer); w.Code != http.StatusNotFound {
		t.Fatalf("unknown order upload = %d, want 404: %s", w.Code, w.Body.String())
	}
	if n := savedUploads(t, app.uploadsDir); n != 0 {
		t.Fatalf("rejected uploads left %d file(s) on disk", n)
	}

	if w := app.doUpload(t, "/orders/"+orderID+"/payment-proof", buyer); w.Code != http.StatusOK {
		t.Fatalf("owner upload = %d: %s", w.Code, w.Body.String())
	}
	if n := savedUploads(t, app.uploadsDir); n != 1 {
		t.Fatalf("saved files = %d, want 1", n)
	}
}

func TestOrderListingRequiresAdmin(t *testing.T) {
	app := newTestApp(t)
	buyer := app.token(t, "buyer-1", models.RoleBuyer)
	adminTok := app.token(t, "admin-1", models.RoleAdmin)

	if w := app.do(t, http.MethodGet, "/orders", buyer, nil); w.Code != http.StatusForbidden {
		t.Fatalf("buyer list-all = %d, want 403", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/orders", adminTok, nil); w.Code != http.StatusOK {
		t.Fatalf("admin list-all = %d, want 200", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/orders", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list-all = %d, want 401", w.Code)
	}
}
