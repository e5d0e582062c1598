package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/modelstore-api/catalog"
)

// GetProductByID returns a single product.
// URL param: /products/:id
func GetProductByID(live *catalog.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := live.Current().ByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

// GetFacets lists the categories, manufacturers and price bounds of the whole
// catalog.
func GetFacets(live *catalog.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, live.Current().Facets())
	}
}
