package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

// Spreadsheet column order for export and import.
var sheetHeaders = []string{
	"ID", "Name", "Manufacturer", "Category", "ShortDescription", "LongDescription",
	"Price", "Images", "FileFormat", "PolygonCount", "PrintTime", "FileSize",
	"Featured", "Rating", "Reviews",
}

const imageSeparator = "|"

// ExportXLSX writes the catalog as a single "Products" sheet.
func (c *Catalog) ExportXLSX(w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("catalog: add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range sheetHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, p := range c.products {
		row := sheet.AddRow()
		for _, v := range []string{
			p.ID,
			p.Name,
			p.Manufacturer,
			p.Category,
			p.ShortDescription,
			p.LongDescription,
			p.Price.StringFixed(2),
			strings.Join(p.Images, imageSeparator),
			p.FileFormat,
			strconv.Itoa(p.PolygonCount),
			p.PrintTime,
			p.FileSize,
			strconv.FormatBool(p.Featured),
			strconv.FormatFloat(p.Rating, 'f', -1, 64),
			strconv.Itoa(p.Reviews),
		} {
			row.AddCell().SetString(v)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("catalog: write xlsx: %w", err)
	}
	return nil
}

// ImportReport counts what LoadXLSX did with each data row.
type ImportReport struct {
	Loaded  int `json:"loaded_count"`
	Skipped int `json:"skipped_count"`
}

// LoadXLSX reads products laid out like ExportXLSX. Rows without a name or
// with an unparseable price are skipped.
func LoadXLSX(r io.ReaderAt, size int64) ([]models.Product, ImportReport, error) {
	var report ImportReport

	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, report, fmt.Errorf("catalog: parse xlsx: %w", err)
	}
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return nil, report, fmt.Errorf("catalog: spreadsheet is empty or missing header row")
	}

	sheet := xlFile.Sheets[0]
	var products []models.Product
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		if row == nil {
			report.Skipped++
			continue
		}

		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(1)
		price, err := decimal.NewFromString(get(6))
		if name == "" || err != nil {
			report.Skipped++
			continue
		}

		polygons, _ := strconv.Atoi(get(9))
		featured, _ := strconv.ParseBool(get(12))
		rating, _ := strconv.ParseFloat(get(13), 64)
		reviews, _ := strconv.Atoi(get(14))

		var images []string
		for _, img := range strings.Split(get(7), imageSeparator) {
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		}

		products = append(products, models.Product{
			ID:               get(0),
			Name:             name,
			Manufacturer:     get(2),
			Category:         get(3),
			ShortDescription: get(4),
			LongDescription:  get(5),
			Price:            price,
			Images:           images,
			FileFormat:       get(8),
			PolygonCount:     polygons,
			PrintTime:        get(10),
			FileSize:         get(11),
			Featured:         featured,
			Rating:           rating,
			Reviews:          reviews,
		})
		report.Loaded++
	}
	return products, report, nil
}
