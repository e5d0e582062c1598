package cart

import (
	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/shopspring/decimal"
)

var (
	// TaxRate is applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.16")
	// FreeShippingThreshold must be strictly exceeded for free shipping.
	FreeShippingThreshold = decimal.NewFromInt(1000)
	FlatShipping          = decimal.NewFromInt(150)
)

// Summary is the derived pricing of a line sequence. It is never stored.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Subtotal is the sum of price x quantity over lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func Tax(lines []models.CartLine) decimal.Decimal {
	return Subtotal(lines).Mul(TaxRate)
}

// Shipping is free above FreeShippingThreshold and flat otherwise.
func Shipping(lines []models.CartLine) decimal.Decimal {
	return shippingFor(Subtotal(lines))
}

func Total(lines []models.CartLine) decimal.Decimal {
	return Summarize(lines).Total
}

// Summarize computes every figure from one pass over lines.
func Summarize(lines []models.CartLine) Summary {
	subtotal := Subtotal(lines)
	tax := subtotal.Mul(TaxRate)
	shipping := shippingFor(subtotal)
	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

func shippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShipping
}
