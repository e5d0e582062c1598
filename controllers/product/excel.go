package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/modelstore-api/catalog"
	"go.uber.org/zap"
)

// ExportProductsToExcel streams the catalog as products.xlsx.
func ExportProductsToExcel(live *catalog.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := live.Current().ExportXLSX(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

// ImportProductsFromExcel replaces the served catalog with the uploaded
// spreadsheet. The current catalog stays in place if the sheet is invalid.
func ImportProductsFromExcel(live *catalog.Live, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		products, report, err := catalog.LoadXLSX(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		current := live.Current()
		next, err := catalog.New(products, catalog.WithLocale(current.Locale()))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		live.Replace(next)

		log.Info("📦 Catalog replaced from spreadsheet",
			zap.Int("loaded", report.Loaded),
			zap.Int("skipped", report.Skipped),
		)
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"loaded_count":  report.Loaded,
			"skipped_count": report.Skipped,
		})
	}
}
