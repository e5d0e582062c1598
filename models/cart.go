package models

import "time"

// CartLine is a product snapshot plus the quantity in the cart.
// JSON keeps the flat {...product, quantity} shape the storefront persists.
type CartLine struct {
	Product
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// Clone returns a copy of the line with its own images slice.
func (l CartLine) Clone() CartLine {
	l.Product = l.Product.Clone()
	return l
}

// CloneLines copies a line sequence, used for order snapshots.
func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// WishlistEntry is a full product snapshot saved for later.
type WishlistEntry struct {
	Product
	AddedAt time.Time `json:"addedAt"`
}
