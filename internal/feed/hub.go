// Package feed streams a session's core events to websocket clients.
// Clients receive a snapshot on connect and then one message per event.
// The feed is read-only: anything a client sends is discarded.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lavaflow/lavaboard/internal/game"
	"github.com/lavaflow/lavaboard/internal/game/rules"
	"go.uber.org/zap"
)

const (
	broadcastBuffer = 256
	clientBuffer    = 64
	writeWait       = 10 * time.Second
)

// Message types.
const (
	MessageSnapshot = "snapshot"
	MessageEvent    = "event"
)

// Message is the JSON envelope written to clients.
type Message struct {
	Type   string `json:"type"`
	GameID string `json:"game_id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Source provides the snapshot sent to new clients.
type Source interface {
	View() game.GameView
}

// SourceFunc adapts a function to Source.
type SourceFunc func() game.GameView

// View calls f.
func (f SourceFunc) View() game.GameView { return f() }

type client struct {
	conn *websocket.Conn
	send chan []byte
	// ready is closed once Run handled the registration; ok reports
	// whether the client was admitted.
	ready chan struct{}
	ok    bool
}

// Hub fans events out to connected clients.
type Hub struct {
	source   Source
	logger   *zap.Logger
	upgrader websocket.Upgrader

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*client]bool
}

// NewHub creates a hub serving snapshots from source. Call Run before
// serving connections.
func NewHub(source Source, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		source: source,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		clients:    make(map[*client]bool),
	}
}

// Run delivers broadcasts until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.admit(c)

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Debug("feed client disconnected", zap.String("remote", c.conn.RemoteAddr().String()))

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					close(c.send)
					delete(h.clients, c)
					h.logger.Warn("feed client too slow, disconnected",
						zap.String("remote", c.conn.RemoteAddr().String()))
				}
			}
			h.mu.Unlock()
		}
	}
}

// admit queues the snapshot for c and then adds it to the broadcast set.
// Both happen on the Run goroutine, ahead of any later broadcast.
func (h *Hub) admit(c *client) {
	defer close(c.ready)

	view := h.source.View()
	snapshot, err := json.Marshal(Message{Type: MessageSnapshot, GameID: view.GameID, Data: view})
	if err != nil {
		h.logger.Error("encode snapshot", zap.Error(err))
		return
	}
	c.send <- snapshot

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	c.ok = true
	h.logger.Debug("feed client connected", zap.String("remote", c.conn.RemoteAddr().String()))
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Listen queues e for every client. It never blocks; when the queue is
// full the event is dropped. It is a rules.Listener.
func (h *Hub) Listen(e rules.Event) {
	payload, err := json.Marshal(Message{Type: MessageEvent, GameID: e.GameID, Data: e})
	if err != nil {
		h.logger.Warn("feed event not encodable", zap.String("type", string(e.Type)), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("feed message dropped", zap.String("type", string(e.Type)))
	}
}

// ServeHTTP upgrades the request to a websocket and registers the client.
// The snapshot is taken when Run admits it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn:  conn,
		send:  make(chan []byte, clientBuffer),
		ready: make(chan struct{}),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	<-c.ready
	if !c.ok {
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
