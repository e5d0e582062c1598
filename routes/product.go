package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/junaidrashid-git/modelstore-api/controllers/product"
)

// SetupProductRoutes registers the public “/api/products/*” endpoints.
func SetupProductRoutes(api *gin.RouterGroup, d Deps) {
	products := api.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(d.Catalog))                  // GET /api/products
		products.GET("/facets", productcontroller.GetFacets(d.Catalog))             // GET /api/products/facets
		products.GET("/featured", productcontroller.GetFeaturedProducts(d.Catalog)) // GET /api/products/featured
		products.GET("/:id", productcontroller.GetProductByID(d.Catalog))           // GET /api/products/:id
	}
}
