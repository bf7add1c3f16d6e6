package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "github.com/hainam0320/EXE201-sub000/controllers/product"
	"github.com/hainam0320/EXE201-sub000/middleware"
	"github.com/hainam0320/EXE201-sub000/models"
)

// SetupAdminRoutes registers the "/admin/*" endpoints. Admin role required.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin", middleware.RequireAuth(d.Guard, models.RoleAdmin))
	{
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productControllers.CreateProduct(d.Catalog))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(d.Catalog))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(d.Catalog))
			productAdmin.GET("/export-excel", productControllers.ExportProductsToExcel(d.Catalog))
		}
	}
}
