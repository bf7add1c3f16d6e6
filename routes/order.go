package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/hainam0320/EXE201-sub000/controllers/order"
	"github.com/hainam0320/EXE201-sub000/middleware"
	"github.com/hainam0320/EXE201-sub000/models"
)

// SetupOrderRoutes registers the "/orders/*" endpoints.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")

	// Live feed for dashboards; the token travels on the query string and
	// is checked inside the handler.
	orders.GET("/ws", orderControllers.OrderFeed(d.Hub, d.Guard))

	buyer := orders.Group("", middleware.RequireAuth(d.Guard))
	{
		buyer.POST("", orderControllers.Checkout(d.Orders, d.Carts))
		buyer.GET("/my-orders", orderControllers.MyOrders(d.Orders))
		buyer.GET("/:id", orderControllers.GetOrder(d.Orders))
		buyer.POST("/:id/cancel", orderControllers.CancelOrder(d.Orders))
		buyer.POST("/:id/payment-proof", orderControllers.UploadPaymentProof(d.Orders, d.Uploads))
		buyer.POST("/:id/mark-paid", orderControllers.MarkPaid(d.Orders))
	}

	staff := orders.Group("", middleware.RequireAuth(d.Guard, models.RoleSeller, models.RoleAdmin))
	{
		staff.GET("/shop", orderControllers.ShopOrders(d.Orders))
		staff.PUT("/:id/status", orderControllers.UpdateStatus(d.Orders))
		staff.PUT("/:id/payment-status", orderControllers.UpdatePaymentStatus(d.Orders))
	}

	admin := orders.Group("", middleware.RequireAuth(d.Guard, models.RoleAdmin))
	{
		admin.GET("", orderControllers.AllOrders(d.Orders))
	}
}
