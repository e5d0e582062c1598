// order_web_socket.go
package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/modelstore-api/models"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// wsClient is one feed connection. Only writePump writes to conn.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans new orders out to the connected admin feed clients.
type Hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]bool
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHub accepts browser connections only from origins allowOrigin approves.
// Requests without an Origin header (non-browser tools) are accepted.
func NewHub(log *zap.Logger, allowOrigin func(origin string) bool) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	if allowOrigin == nil {
		allowOrigin = func(string) bool { return false }
	}
	h := &Hub{clients: make(map[*wsClient]bool), log: log}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowOrigin(origin)
		},
	}
	return h
}

// GET /api/admin/orders/ws
func (h *Hub) OrderWebSocketHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("⚠️ Websocket upgrade rejected", zap.Error(err))
		return
	}
	client := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	go h.writePump(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(client)
			return
		}
	}
}

// Clients is the number of open connections.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) writePump(client *wsClient) {
	defer client.conn.Close()
	for msg := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("⚠️ Websocket write failed", zap.Error(err))
			h.drop(client)
			return
		}
	}
}

// drop unregisters client and closes its connection. Safe to call twice.
func (h *Hub) drop(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *wsClient) {
	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	close(client.send)
	client.conn.Close()
}

// broadcastNewOrder never blocks on a client: one whose queue is full is
// dropped.
func (h *Hub) broadcastNewOrder(order models.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.log.Warn("⚠️ Dropping slow websocket client")
			h.dropLocked(client)
		}
	}
}
