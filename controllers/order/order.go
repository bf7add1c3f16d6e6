package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/idempotency"
	"github.com/hainam0320/EXE201-sub000/logging"
	"github.com/hainam0320/EXE201-sub000/middleware"
	cartService "github.com/hainam0320/EXE201-sub000/services/cart"
	orderService "github.com/hainam0320/EXE201-sub000/services/order"
	"github.com/hainam0320/EXE201-sub000/uploads"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), apperr.Payload(err))
}

// POST /orders
//
// Creates one order per shop from the submitted line items, then clears the
// buyer's cart. The order create is durable before the clear runs, so a
// crash in between leaves a stale cart rather than a lost order.
func Checkout(orders *orderService.Service, carts *cartService.Service) gin.HandlerFunc {
	log := logging.New("checkout")
	return func(c *gin.Context) {
		buyer := middleware.Identity(c)

		var input orderService.CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			fail(c, apperr.Wrap(apperr.KindInvalidArgument, "invalid checkout input", err))
			return
		}

		idemKey := c.GetHeader(idempotency.Header)
		created, replayed, err := orders.Checkout(c.Request.Context(), buyer.ID, input, idemKey)
		if err != nil {
			fail(c, err)
			return
		}

		if !replayed {
			if err := carts.Clear(c.Request.Context(), buyer.ID); err != nil {
				// The orders exist; a stale cart is recoverable by the buyer.
				log.Warn("failed to clear cart after checkout", "buyer_id", buyer.ID, "error", err)
			}
		}

		status := http.StatusCreated
		if replayed {
			status = http.StatusOK
		}
		c.JSON(status, gin.H{"orders": created, "replayed": replayed})
	}
}

// GET /orders/my-orders
func MyOrders(orders *orderService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer := middleware.Identity(c)
		list, err := orders.ListBuyerOrders(c.Request.Context(), buyer.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /orders/shop
func ShopOrders(orders *orderService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		seller := middleware.Identity(c)
		list, err := orders.ListShopOrders(c.Request.Context(), seller.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /orders
func AllOrders(orders *orderService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListAllOrders(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /orders/:id
func GetOrder(orders *orderService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.Identity(c)
		ord, err := orders.GetOrder(c.Request.Context(), caller, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

// POST /orders/:id/cancel
func CancelOrder(orders *orderService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.Identity(c)
		ord, err := orders.Cancel(c.Request.Context(), caller, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

// PUT /orders/:id/status
func UpdateStatus(orders *orderService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.Identity(c)
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, apperr.Wrap(apperr.KindInvalidArgument, "status is required", err))
			return
		}
		ord, err := orders.SetStatus(c.Request.Context(), caller, c.Param("id"), req.Status)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

// PUT /orders/:id/payment-status
func UpdatePaymentStatus(orders *orderService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.Identity(c)
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, apperr.Wrap(apperr.KindInvalidArgument, "payment_status is required", err))
			return
		}
		ord, err := orders.SetPaymentStatus(c.Request.Context(), caller, c.Param("id"), req.PaymentStatus)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

// POST /orders/:id/payment-proof (multipart field "file")
func UploadPaymentProof(orders *orderService.Service, store uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.Identity(c)

		// Authorize before touching the disk so a rejected request leaves
		// no orphan file in the public uploads directory.
		if err := orders.AuthorizePaymentProof(c.Request.Context(), caller, c.Param("id")); err != nil {
			fail(c, err)
			return
		}

		fh, err := c.FormFile("file")
		if err != nil {
			fail(c, apperr.Wrap(apperr.KindInvalidArgument, "payment proof file is required", err))
			return
		}
		url, err := store.Save(fh, "payment-proofs")
		if err != nil {
			fail(c, apperr.Wrap(apperr.KindInternal, "failed to store payment proof", err))
			return
		}

		ord, err := orders.AttachPaymentProof(c.Request.Context(), caller, c.Param("id"), url)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

// POST /orders/:id/mark-paid
func MarkPaid(orders *orderService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.Identity(c)
		ord, err := orders.MarkPaid(c.Request.Context(), caller, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}
