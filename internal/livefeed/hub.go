// Package livefeed pushes finalized launches to WebSocket subscribers.
package livefeed

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"molenker/internal/domain"
	"molenker/internal/observability"
)

// Config configures Hub behavior.
type Config struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is how long a client may stay silent before it is dropped.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// SendBuffer is the per-client queue; a client whose queue fills is dropped.
	SendBuffer int
}

// DefaultConfig returns default hub configuration.
func DefaultConfig() Config {
	return Config{
		PingInterval: 30 * time.Second,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		SendBuffer:   16,
	}
}

// Event is the message sent to subscribers.
type Event struct {
	Type  string              `json:"type"`
	Token *domain.TokenLaunch `json:"token"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans launch events out to connected clients.
type Hub struct {
	config   Config
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  atomic.Bool
	wg      sync.WaitGroup
}

// NewHub creates a Hub. A nil config uses DefaultConfig.
func NewHub(config *Config, logger *zap.Logger) *Hub {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Notify broadcasts a finalized launch. It never blocks on a slow client.
func (h *Hub) Notify(t *domain.TokenLaunch) {
	if h.closed.Load() || t == nil {
		return
	}

	msg, err := json.Marshal(Event{Type: "launch", Token: t})
	if err != nil {
		h.logger.Error("marshal launch event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow live feed client")
			h.removeLocked(c)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "live feed closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.config.SendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	observability.SetFeedClients(len(h.clients))
	h.mu.Unlock()

	h.wg.Add(2)
	go h.writeLoop(c)
	go h.readLoop(c)
}

// readLoop discards client messages and detects disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.wg.Done()
	defer h.remove(c)

	c.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop delivers queued events and keeps the connection alive with pings.
func (h *Hub) writeLoop(c *client) {
	defer h.wg.Done()
	defer c.conn.Close()

	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	observability.SetFeedClients(len(h.clients))
}

// Close disconnects every client and waits for their goroutines to exit.
func (h *Hub) Close() {
	if h.closed.Swap(true) {
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		h.removeLocked(c)
	}
	h.mu.Unlock()

	h.wg.Wait()
}
