package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hainam0320/EXE201-sub000/apperr"
	catalogService "github.com/hainam0320/EXE201-sub000/services/catalog"
)

func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), apperr.Payload(err))
}

// GET /products
func GetProducts(svc *catalogService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.ListProducts(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:id
func GetProductByID(svc *catalogService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// POST /admin/products
func CreateProduct(svc *catalogService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input catalogService.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			fail(c, apperr.Wrap(apperr.KindInvalidArgument, "invalid product input", err))
			return
		}
		product, err := svc.CreateProduct(c.Request.Context(), input)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id
func UpdateProduct(svc *catalogService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input catalogService.ProductUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			fail(c, apperr.Wrap(apperr.KindInvalidArgument, "invalid product input", err))
			return
		}
		product, err := svc.UpdateProduct(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:id
func DeleteProduct(svc *catalogService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
