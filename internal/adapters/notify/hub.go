package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// envelope is the wire format pushed to subscribers.
type envelope struct {
	Topic string       `json:"topic"`
	Event domain.Event `json:"event"`
}

// client is one WebSocket connection subscribed to a set of topics.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	topics []string
}

// Hub fans events out to WebSocket subscribers grouped by topic. Publishing
// never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*client]struct{}
	logger *slog.Logger
}

// NewHub creates a new WebSocket notification hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*client]struct{}),
		logger: logger,
	}
}

var _ portssvc.Notifier = (*Hub)(nil)

// Publish sends the event to every subscriber of the topic. Delivery is
// best-effort; errors are logged, never returned.
func (h *Hub) Publish(ctx context.Context, topic string, event domain.Event) {
	payload, err := json.Marshal(envelope{Topic: topic, Event: event})
	if err != nil {
		h.logger.Error("Failed to marshal notification event", slog.String("topic", topic), slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[topic] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("Dropping notification for slow subscriber", slog.String("topic", topic))
		}
	}
}

// Subscribe attaches a WebSocket connection to the given topics and starts its
// read and write pumps. It returns immediately; the connection is cleaned up
// when either pump exits.
func (h *Hub) Subscribe(conn *websocket.Conn, topics []string) {
	c := &client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		topics: topics,
	}

	h.mu.Lock()
	for _, topic := range topics {
		if h.rooms[topic] == nil {
			h.rooms[topic] = make(map[*client]struct{})
		}
		h.rooms[topic][c] = struct{}{}
	}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range c.topics {
		if room, ok := h.rooms[topic]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, topic)
			}
		}
	}
}

// readPump discards inbound frames; the push channel is one-way. Its job is
// to notice the connection closing and to answer pings.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unsubscribe(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.unsubscribe(c)
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
