package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/hainam0320/EXE201-sub000/controllers/cart"
	"github.com/hainam0320/EXE201-sub000/middleware"
)

// SetupCartRoutes registers the "/cart/*" endpoints. All require buyer auth.
func SetupCartRoutes(r *gin.Engine, d Deps) {
	cartGroup := r.Group("/cart", middleware.RequireAuth(d.Guard))
	{
		cartGroup.GET("", cartControllers.GetCart(d.Carts))
		cartGroup.POST("/add", cartControllers.AddItem(d.Carts))
		cartGroup.PUT("/update", cartControllers.UpdateItem(d.Carts))
		cartGroup.DELETE("/item/:productId", cartControllers.RemoveItem(d.Carts))
		cartGroup.DELETE("/clear", cartControllers.ClearCart(d.Carts))
	}
}
