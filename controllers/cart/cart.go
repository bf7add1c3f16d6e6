package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/middleware"
	cartService "github.com/hainam0320/EXE201-sub000/services/cart"
)

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), apperr.Payload(err))
}

// GET /cart
func GetCart(svc *cartService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer := middleware.Identity(c)
		cart, err := svc.GetOrCreateCart(c.Request.Context(), buyer.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /cart/add
func AddItem(svc *cartService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer := middleware.Identity(c)
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			fail(c, apperr.Wrap(apperr.KindInvalidArgument, "invalid cart input", err))
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), buyer.ID, input.ProductID, input.Quantity)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// PUT /cart/update
func UpdateItem(svc *cartService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer := middleware.Identity(c)
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			fail(c, apperr.Wrap(apperr.KindInvalidArgument, "invalid cart input", err))
			return
		}
		cart, err := svc.UpdateItemQuantity(c.Request.Context(), buyer.ID, input.ProductID, input.Quantity)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /cart/item/:productId
func RemoveItem(svc *cartService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer := middleware.Identity(c)
		if err := svc.RemoveItem(c.Request.Context(), buyer.ID, c.Param("productId")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
	}
}

// DELETE /cart/clear
func ClearCart(svc *cartService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer := middleware.Identity(c)
		if err := svc.Clear(c.Request.Context(), buyer.ID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
