package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Products are defined at build time and never
// mutated at runtime.
type Product struct {
	ID               string          `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	Manufacturer     string          `json:"manufacturer" yaml:"manufacturer"`
	Category         string          `json:"category" yaml:"category"`
	ShortDescription string          `json:"shortDescription" yaml:"shortDescription"`
	LongDescription  string          `json:"longDescription" yaml:"longDescription"`
	Price            decimal.Decimal `json:"price" yaml:"price"`
	Images           []string        `json:"images" yaml:"images"`
	FileFormat       string          `json:"fileFormat" yaml:"fileFormat"`
	PolygonCount     int             `json:"polygonCount" yaml:"polygonCount"`
	PrintTime        string          `json:"printTime" yaml:"printTime"`
	FileSize         string          `json:"fileSize" yaml:"fileSize"`
	Featured         bool            `json:"featured" yaml:"featured"`
	Rating           float64         `json:"rating" yaml:"rating"`
	Reviews          int             `json:"reviews" yaml:"reviews"`
}

// Clone returns a deep copy so callers never share the images slice.
func (p Product) Clone() Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}
