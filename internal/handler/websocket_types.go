// internal/handler/websocket_types.go
package handler

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"escpos-service/internal/model"
)

// Client represents a WebSocket client. A client with no subscriptions
// receives every event type.
type Client struct {
	ID          string          `json:"id"`
	Connection  *websocket.Conn `json:"-"`
	Send        chan []byte     `json:"-"`
	PrinterID   *string         `json:"printer_id,omitempty"`
	UserAgent   string          `json:"user_agent"`
	RemoteAddr  string          `json:"remote_addr"`
	ConnectedAt time.Time       `json:"connected_at"`

	mutex         sync.RWMutex
	subscriptions map[model.EventType]bool
}

// Subscribe limits delivery to eventType (plus any other subscribed types)
func (c *Client) Subscribe(eventType model.EventType) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.subscriptions == nil {
		c.subscriptions = make(map[model.EventType]bool)
	}
	c.subscriptions[eventType] = true
}

// Unsubscribe stops delivery of eventType
func (c *Client) Unsubscribe(eventType model.EventType) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.subscriptions, eventType)
}

// Wants reports whether event should be sent to the client
func (c *Client) Wants(event model.Event) bool {
	if c.PrinterID != nil && *c.PrinterID != event.PrinterID {
		return false
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.subscriptions) == 0 || c.subscriptions[event.EventType]
}

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConnectionManager tracks connected WebSocket clients
type ConnectionManager struct {
	clients map[string]*Client
	mutex   sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{clients: make(map[string]*Client)}
}

// Register registers a new client
func (cm *ConnectionManager) Register(client *Client) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[client.ID] = client
}

// Unregister removes a client and closes its send channel
func (cm *ConnectionManager) Unregister(client *Client) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if _, ok := cm.clients[client.ID]; ok {
		delete(cm.clients, client.ID)
		close(client.Send)
	}
}

// CloseAll unregisters every client
func (cm *ConnectionManager) CloseAll() {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	for id, client := range cm.clients {
		delete(cm.clients, id)
		close(client.Send)
	}
}

// Send queues message for one client; false when the client is gone or
// its queue is full
func (cm *ConnectionManager) Send(client *Client, message []byte) bool {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	if _, ok := cm.clients[client.ID]; !ok {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// Broadcast queues message for every client that wants event. Clients with
// a full send queue miss the message.
func (cm *ConnectionManager) Broadcast(event model.Event, message []byte) (dropped []string) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for _, client := range cm.clients {
		if !client.Wants(event) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			dropped = append(dropped, client.ID)
		}
	}
	return dropped
}

// GetStats returns connection statistics
func (cm *ConnectionManager) GetStats() *ConnectionStats {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	stats := &ConnectionStats{
		TotalConnections: len(cm.clients),
		ByPrinter:        make(map[string]int),
	}
	for _, client := range cm.clients {
		key := "*"
		if client.PrinterID != nil {
			key = *client.PrinterID
		}
		stats.ByPrinter[key]++
	}
	return stats
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	ByPrinter        map[string]int `json:"by_printer"`
}
