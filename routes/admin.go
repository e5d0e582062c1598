package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/modelstore-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/modelstore-api/controllers/product"
	userControllers "github.com/junaidrashid-git/modelstore-api/controllers/user"
	"github.com/junaidrashid-git/modelstore-api/middleware"
)

// SetupAdminRoutes registers all “/api/admin/*” endpoints. Requires API‐Key middleware.
func SetupAdminRoutes(api *gin.RouterGroup, d Deps) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))

		// ─────────── Catalog Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Catalog, d.Log))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Catalog))
		}

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(d.DB))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.DB))

			// live feed of new orders
			orderAdmin.GET("/ws", d.Hub.OrderWebSocketHandler)
		}
	}
}
