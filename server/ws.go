package server

import (
	"context"
	"net/http"
	"sync"

	"competitors/logger"

	"github.com/gorilla/websocket"
)

// Message types sent over the websocket.
const (
	MessageSystem       = "system"
	MessageQuerySummary = "query_summary"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type BroadcastMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// QuerySummary is the side-channel view of a finished query.
type QuerySummary struct {
	ID          string    `json:"id"`
	Mode        string    `json:"mode"`
	Codes       [2]string `json:"codes"`
	Competitors int       `json:"competitors"`
	Highlights  []string  `json:"highlights"`
}

// Hub fans messages out to every connected websocket client.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan BroadcastMessage
	mu        sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan BroadcastMessage, 64),
	}
}

// Run delivers broadcasts until ctx is done, then disconnects all clients.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if err := client.WriteJSON(msg); err != nil {
					logger.Warn(logger.StatusNet, "WS write failed: %v", err)
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message. It never blocks; when the queue is full the
// message is dropped.
func (h *Hub) Broadcast(msgType string, payload any) {
	select {
	case h.broadcast <- BroadcastMessage{Type: msgType, Payload: payload}:
	default:
		logger.Warn(logger.StatusNet, "WS queue full, dropping %s", msgType)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn(logger.StatusNet, "Upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	err = conn.WriteJSON(BroadcastMessage{Type: MessageSystem, Payload: "Connected to competitor stream"})
	if err == nil {
		h.clients[conn] = true
	}
	h.mu.Unlock()
	if err != nil {
		conn.Close()
		return
	}

	go h.readLoop(conn)
}

// readLoop discards client input and unregisters the client once it goes away.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
