package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	productControllers "github.com/hainam0320/EXE201-sub000/controllers/product"

	"github.com/hainam0320/EXE201-sub000/auth"
	"github.com/hainam0320/EXE201-sub000/events"
	cartService "github.com/hainam0320/EXE201-sub000/services/cart"
	catalogService "github.com/hainam0320/EXE201-sub000/services/catalog"
	orderService "github.com/hainam0320/EXE201-sub000/services/order"
	"github.com/hainam0320/EXE201-sub000/uploads"
)

// Deps bundles the constructed services handed to the route groups. All
// wiring happens in main; handlers never build their own dependencies.
type Deps struct {
	Guard   auth.Guard
	Carts   *cartService.Service
	Orders  *orderService.Service
	Catalog *catalogService.Service
	Uploads uploads.Store
	Hub     *events.Hub
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public catalog + operational endpoints
	r.GET("/products", productControllers.GetProducts(d.Catalog))
	r.GET("/products/:id", productControllers.GetProductByID(d.Catalog))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	SetupCartRoutes(r, d)
	SetupOrderRoutes(r, d)
	SetupAdminRoutes(r, d)
}
