package models

import "github.com/shopspring/decimal"

// -------- Request Structs --------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// OrderRequest is the checkout payload. Total is informational; the server
// prices the order again from its own catalog.
type OrderRequest struct {
	Items        []CartLine      `json:"items" binding:"required,min=1,dive"`
	Total        decimal.Decimal `json:"total"`
	ShippingInfo ShippingInfo    `json:"shippingInfo" binding:"required"`
}

// -------- Response Structs --------

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type UserResponse struct {
	User User `json:"user"`
}

type OrderResponse struct {
	Order Order `json:"order"`
}

type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
