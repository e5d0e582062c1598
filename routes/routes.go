package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/modelstore-api/auth"
	"github.com/junaidrashid-git/modelstore-api/catalog"
	orderControllers "github.com/junaidrashid-git/modelstore-api/controllers/order"
	"github.com/junaidrashid-git/modelstore-api/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the route groups need.
type Deps struct {
	DB          *gorm.DB
	Catalog     *catalog.Live
	Tokens      *auth.Tokens
	Hub         *orderControllers.Hub
	Limiter     *middleware.IPRateLimiter
	AdminAPIKey string
	Log         *zap.Logger
}

// SetupRoutes is the single entry‐point that wires up every route group under /api.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	api := r.Group("/api")

	// 1️⃣ Auth routes (register/login public, the rest JWT‐protected)
	SetupAuthRoutes(api, d)

	// 2️⃣ Public catalog routes
	SetupProductRoutes(api, d)

	// 3️⃣ Admin routes (API‐Key‐protected)
	SetupAdminRoutes(api, d)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Servidor funcionando correctamente"})
	})
}
