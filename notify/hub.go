// Package notify fans data-change events out to dashboard clients over
// WebSocket and, best effort, onto a Pub/Sub topic for other consumers.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

// Event is one data-change notification. Module is the logical collection
// name the dashboard listens on, Action is add, update or delete.
type Event struct {
	Event  string         `json:"event"`
	Module string         `json:"module"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// NewEvent builds a data_updated event.
func NewEvent(module string, action string, id string, data map[string]any) Event {
	return Event{
		Event:  "data_updated",
		Module: module,
		Action: action,
		ID:     id,
		Data:   data,
	}
}

// Hub tracks connected WebSocket clients and broadcasts events to all of
// them. Slow or dead clients are dropped rather than blocking the rest.
type Hub struct {
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 100),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
	h.wg.Add(1)
	go h.broadcastLoop()
	return h
}

// Broadcast queues an event for delivery. Never blocks; when the queue is
// full the event is dropped with a warning.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	case <-h.ctx.Done():
	default:
		h.logger.WithField("module", event.Module).Warn("broadcast queue full, dropping event")
	}
}

// ClientCount reports the number of connected dashboard clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a WebSocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.clientsMu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.clientsMu.Unlock()

	h.logger.WithField("clients", count).Info("dashboard client connected")

	go h.readLoop(conn)
}

func (h *Hub) broadcastLoop() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.WithError(err).Error("failed to marshal event")
				continue
			}

			h.clientsMu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.clientsMu.RUnlock()

			// Write outside the lock so one stalled client cannot block
			// new connections.
			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					h.removeClient(conn)
				}
			}
		}
	}
}

// readLoop drains client frames so pings are answered and disconnects are
// noticed. Client messages are otherwise ignored.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.removeClient(conn)
	for {
		if _, _, err := conn.Read(h.ctx); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close(websocket.StatusNormalClosure, "")
		h.logger.WithField("clients", len(h.clients)).Info("dashboard client disconnected")
	}
	h.clientsMu.Unlock()
}

// Close drops every client and stops the broadcast loop.
func (h *Hub) Close() {
	h.cancel()

	h.clientsMu.Lock()
	for conn := range h.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(h.clients, conn)
	}
	h.clientsMu.Unlock()

	h.wg.Wait()
}
