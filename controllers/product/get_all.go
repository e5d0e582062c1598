package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/modelstore-api/catalog"
	"github.com/shopspring/decimal"
)

// GetProducts evaluates a catalog query.
// GET /api/products?search=&category=&manufacturer=&min_price=&max_price=&sort=
// category and manufacturer may be repeated.
func GetProducts(live *catalog.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		sortKey, err := catalog.ParseSortKey(c.Query("sort"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort"})
			return
		}

		q := catalog.Query{
			Term:          c.Query("search"),
			Categories:    c.QueryArray("category"),
			Manufacturers: c.QueryArray("manufacturer"),
			Sort:          sortKey,
		}

		if s := c.Query("min_price"); s != "" {
			min, err := decimal.NewFromString(s)
			if err != nil || min.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			q.Price.Min = min
		}
		if s := c.Query("max_price"); s != "" {
			max, err := decimal.NewFromString(s)
			if err != nil || max.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			q.Price.Max = decimal.NewNullDecimal(max)
		}

		c.JSON(http.StatusOK, live.Current().Query(q))
	}
}

// GET /api/products/featured
func GetFeaturedProducts(live *catalog.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := live.Current().Featured()
		c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
	}
}
