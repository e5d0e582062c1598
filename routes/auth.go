package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/modelstore-api/auth"
	orderControllers "github.com/junaidrashid-git/modelstore-api/controllers/order"
	userControllers "github.com/junaidrashid-git/modelstore-api/controllers/user"
	"github.com/junaidrashid-git/modelstore-api/middleware"
)

// SetupAuthRoutes registers all “/api/auth/*” endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Deps) {
	authGroup := api.Group("/auth")
	{
		public := authGroup.Group("")
		if d.Limiter != nil {
			public.Use(middleware.RateLimit(d.Limiter))
		}
		public.POST("/register", auth.Register(d.DB, d.Tokens, d.Log))
		public.POST("/login", auth.Login(d.DB, d.Tokens, d.Log))

		protected := authGroup.Group("")
		protected.Use(middleware.ValidateToken(d.Tokens))
		{
			protected.GET("/me", auth.Me(d.DB))
			protected.PUT("/me", userControllers.UpdateUser(d.DB))

			// ──────────────── Orders ────────────────
			protected.GET("/users/:userId/orders", orderControllers.GetUserOrdersHandler(d.DB))
			protected.POST("/users/:userId/orders", orderControllers.CreateOrderHandler(d.DB, d.Catalog, d.Hub, d.Log))
		}
	}
}
