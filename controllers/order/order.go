package orderControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/modelstore-api/auth"
	"github.com/junaidrashid-git/modelstore-api/cart"
	"github.com/junaidrashid-git/modelstore-api/catalog"
	"github.com/junaidrashid-git/modelstore-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

var errUnknownProduct = errors.New("unknown product")

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch s := models.OrderStatus(strings.ToLower(status)); s {
	case models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusReturnRequested,
		models.OrderStatusReturned:
		return s, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// generateOrderRef builds ORD-<timestamp>-<uuid>.
func generateOrderRef(now time.Time) string {
	return "ORD-" + now.Format("20060102150405") + "-" + uuid.NewString()
}

// repriceLines replaces every product snapshot with the catalog's copy so
// the stored order never trusts client prices.
func repriceLines(cat *catalog.Catalog, lines []models.CartLine) ([]models.CartLine, error) {
	out := make([]models.CartLine, len(lines))
	for i, l := range lines {
		p, ok := cat.ByID(l.ID)
		if !ok {
			return nil, errUnknownProduct
		}
		out[i] = models.CartLine{Product: p, Quantity: l.Quantity}
	}
	return out, nil
}

// sameUser rejects requests for another user's orders.
func sameUser(c *gin.Context) bool {
	if c.Param("userId") != c.GetString(auth.ContextUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No autorizado"})
		return false
	}
	return true
}

// -------- Handlers --------

// GET /api/auth/users/:userId/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sameUser(c) {
			return
		}
		orders, err := models.GetUserOrders(db, c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			return
		}
		c.JSON(http.StatusOK, models.OrdersResponse{Orders: orders})
	}
}

// POST /api/auth/users/:userId/orders
func CreateOrderHandler(db *gorm.DB, live *catalog.Live, hub *Hub, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sameUser(c) {
			return
		}

		var req models.OrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Pedido inválido: " + err.Error()})
			return
		}

		items, err := repriceLines(live.Current(), req.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Producto no encontrado"})
			return
		}

		now := time.Now().UTC()
		order := models.Order{
			ID:           generateOrderRef(now),
			UserID:       c.Param("userId"),
			Items:        items,
			Total:        cart.Total(items),
			ShippingInfo: req.ShippingInfo,
			Status:       models.OrderStatusProcessing,
			Date:         now,
		}
		if order.ShippingInfo.PaymentMethod == "" {
			order.ShippingInfo.PaymentMethod = models.PaymentCreditCard
		}
		if !req.Total.IsZero() && !req.Total.Equal(order.Total) {
			log.Warn("⚠️ Client total differs from catalog total",
				zap.String("client_total", req.Total.String()),
				zap.String("total", order.Total.String()),
			)
		}

		if err := models.SaveOrder(db, &order); err != nil {
			log.Error("❌ Failed to save order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			return
		}

		log.Info("🛒 Order created", zap.String("order_id", order.ID), zap.String("user_id", order.UserID))
		hub.broadcastNewOrder(order)
		c.JSON(http.StatusCreated, models.OrderResponse{Order: order})
	}
}

// Fetch all orders (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Order("date DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.OrdersResponse{Orders: orders})
	}
}

// Update order status (admin)
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", newStatus)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}
