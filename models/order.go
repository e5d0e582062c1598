package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type ReturnStatus string

const (
	// Order statuses
	OrderStatusProcessing      OrderStatus = "processing"       // Paid, waiting to be fulfilled
	OrderStatusShipped         OrderStatus = "shipped"          // Files sent / out for delivery
	OrderStatusDelivered       OrderStatus = "delivered"        // Customer received the files
	OrderStatusReturnRequested OrderStatus = "return-requested" // Customer asked for a return
	OrderStatusReturned        OrderStatus = "returned"         // Return completed

	// Return request statuses
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
)

// Payment methods accepted at checkout.
const (
	PaymentCreditCard = "credit-card"
	PaymentDebitCard  = "debit-card"
	PaymentPayPal     = "paypal"
	PaymentTransfer   = "transfer"
)

type ShippingInfo struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	City          string `json:"city" binding:"required"`
	ZipCode       string `json:"zipCode" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
}

type Order struct {
	ID           string          `gorm:"primaryKey;size:80" json:"id"`
	UserID       string          `gorm:"index;not null" json:"userId"`
	Items        []CartLine      `gorm:"serializer:json;type:text" json:"items"`
	Total        decimal.Decimal `gorm:"type:numeric" json:"total"`
	ShippingInfo ShippingInfo    `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingInfo"`
	Status       OrderStatus     `gorm:"type:VARCHAR(20);default:'processing'" json:"status"`
	Date         time.Time       `json:"date"`
}

// ReturnRequest is created when a customer asks to return an order. OrderID is a
// reference only; the order may already be gone from the active list.
type ReturnRequest struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	OrderDate   time.Time       `json:"orderDate"`
	Items       []CartLine      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      ReturnStatus    `json:"status"`
	RequestDate time.Time       `json:"requestDate"`
	Reason      string          `json:"reason"`
}

func SaveOrder(db *gorm.DB, order *Order) error {
	return db.Create(order).Error
}

// GetUserOrders returns the user's orders, newest first.
func GetUserOrders(db *gorm.DB, userID string) ([]Order, error) {
	var orders []Order
	if err := db.Where("user_id = ?", userID).Order("date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
