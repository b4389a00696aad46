package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"casaligan-admin-server/services"
)

const (
	MessageBookingUpdated = "booking_updated"
	MessageBookingDeleted = "booking_deleted"
	MessagePing           = "ping"
	MessagePong           = "pong"
)

// Client is one open console tab
type Client struct {
	Hub     *Hub
	AdminID uint
	Conn    *websocket.Conn
	Send    chan []byte
	pong    chan struct{}
}

// Message is the envelope pushed to consoles
type Message struct {
	Type      string      `json:"type"`
	BookingID string      `json:"booking_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub fans booking events out to every connected console
type Hub struct {
	clients map[*Client]bool

	// Broadcast channel for messages to all clients
	Broadcast chan *Message

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	allowedOrigins map[string]bool

	// done is closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// NewHub creates a hub that accepts upgrades from allowedOrigins. An empty
// list accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Hub{
		clients:        make(map[*Client]bool),
		Broadcast:      make(chan *Message, 256),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		allowedOrigins: origins,
		done:           make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("🔌 Console registered: admin=%d", client.AdminID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Console unregistered: admin=%d", client.AdminID)

		case message := <-h.Broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// broadcastMessage sends a message to all connected clients. Clients whose
// buffer is full are dropped.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			log.Printf("⚠️ Console for admin %d is not keeping up, disconnecting", client.AdminID)
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var _ services.EventPublisher = (*Hub)(nil)

// PublishBookingEvent queues a console message for evt. It never blocks.
func (h *Hub) PublishBookingEvent(_ context.Context, evt services.BookingEvent) error {
	msgType := MessageBookingUpdated
	if evt.Type == services.EventBookingDeleted {
		msgType = MessageBookingDeleted
	}
	message := &Message{
		Type:      msgType,
		BookingID: evt.BookingID.String(),
		Timestamp: evt.OccurredAt,
		Data:      evt,
	}

	select {
	case h.Broadcast <- message:
	default:
		log.Printf("⚠️ Console broadcast queue full, dropped %s for %s", evt.Type, evt.BookingID)
	}
	return nil
}
