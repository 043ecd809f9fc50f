// internal/handler/websocket_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"escpos-service/internal/model"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 54 * time.Second
)

// WebSocketHandler streams job and printer events to WebSocket clients
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	connections *ConnectionManager
	registry    *service.PrinterRegistry
	eventBus    *EventBus
	events      <-chan model.Event
	logger      *utils.ServiceLogger
}

// NewWebSocketHandler creates a WebSocket handler fed by eventBus.
// allowedOrigins follows the CORS setting; "*" allows any origin.
func NewWebSocketHandler(eventBus *EventBus, registry *service.PrinterRegistry, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		connections: NewConnectionManager(),
		registry:    registry,
		eventBus:    eventBus,
		events:      eventBus.Subscribe(""),
		logger:      utils.NewServiceLogger(logger, "websocket-handler"),
	}

	go h.forwardEvents()
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/events", h.HandleEventConnection)
}

// HandleEventConnection upgrades to a WebSocket streaming events
// @Summary Job event stream
// @Description WebSocket stream of job and printer events, optionally for one printer
// @Tags Events
// @Param printer_id query string false "Only events for this printer"
// @Success 101 {string} string "Switching protocols"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /ws/events [get]
func (h *WebSocketHandler) HandleEventConnection(c *gin.Context) {
	var printerID *string
	if id := c.Query("printer_id"); id != "" {
		if _, err := h.registry.Get(id); err != nil {
			utils.ErrorResponse(c, http.StatusNotFound, "Printer not found", err)
			return
		}
		printerID = &id
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		PrinterID:   printerID,
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Event WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("remote_addr", client.RemoteAddr),
	)

	h.sendMessage(client, &WebSocketMessage{
		Type:      "printers",
		Data:      h.registry.Infos(),
		Timestamp: time.Now(),
	})

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// forwardEvents relays bus events to matching clients until the bus stops
func (h *WebSocketHandler) forwardEvents() {
	for event := range h.events {
		message, err := json.Marshal(&WebSocketMessage{
			Type:      "event",
			Data:      event,
			Timestamp: event.Timestamp,
		})
		if err != nil {
			h.logger.Error("Failed to marshal event", zap.Error(err))
			continue
		}

		for _, id := range h.connections.Broadcast(event, message) {
			h.logger.Warn("Client send channel full, dropping event",
				zap.String("client_id", id),
				zap.String("event_type", string(event.EventType)),
			)
		}
	}
}

func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.connections.Unregister(client)
		client.Connection.Close()
		h.logger.Info("Event WebSocket client disconnected", zap.String("client_id", client.ID))
	}()

	client.Connection.SetReadDeadline(time.Now().Add(wsReadTimeout))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			return
		}

		var message WebSocketMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			h.sendError(client, "invalid message")
			continue
		}
		h.handleClientMessage(client, &message)
	}
}

func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleClientMessage handles subscribe, unsubscribe and ping messages.
// Subscribe and unsubscribe take {"event_type": "JOB_FAILED"}.
func (h *WebSocketHandler) handleClientMessage(client *Client, message *WebSocketMessage) {
	switch message.Type {
	case "subscribe", "unsubscribe":
		data, _ := message.Data.(map[string]interface{})
		eventType, _ := data["event_type"].(string)
		if eventType == "" {
			h.sendError(client, "event_type is required")
			return
		}
		if message.Type == "subscribe" {
			client.Subscribe(model.EventType(eventType))
		} else {
			client.Unsubscribe(model.EventType(eventType))
		}
		h.sendMessage(client, &WebSocketMessage{
			Type:      message.Type + "d",
			Data:      map[string]interface{}{"event_type": eventType},
			Timestamp: time.Now(),
		})
	case "ping":
		h.sendMessage(client, &WebSocketMessage{
			Type:      "pong",
			Timestamp: time.Now(),
		})
	default:
		h.sendError(client, "unknown message type: "+message.Type)
	}
}

func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}
	if !h.connections.Send(client, messageBytes) {
		h.logger.Warn("Client send channel unavailable, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}

func (h *WebSocketHandler) sendError(client *Client, errorMsg string) {
	h.sendMessage(client, &WebSocketMessage{
		Type:      "error",
		Data:      map[string]interface{}{"error": errorMsg},
		Timestamp: time.Now(),
	})
}

// GetConnectionStats returns connection statistics
func (h *WebSocketHandler) GetConnectionStats() *ConnectionStats {
	return h.connections.GetStats()
}

// Close disconnects every client
func (h *WebSocketHandler) Close() {
	h.eventBus.Unsubscribe(h.events)
	h.connections.CloseAll()
}
