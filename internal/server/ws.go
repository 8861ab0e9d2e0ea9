package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/gesturemouse/internal/control"
	"github.com/ayusman/gesturemouse/internal/gesture"
)

const (
	eventBuffer  = 256
	writeTimeout = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event is the websocket message sent for each dispatched action.
type Event struct {
	Kind      control.Kind `json:"kind"`
	Mode      gesture.Mode `json:"mode"`
	X         int          `json:"x"`
	Y         int          `json:"y"`
	Amount    int          `json:"amount"`
	Timestamp int64        `json:"timestamp"`
}

// EventHub broadcasts dispatched actions to websocket clients. Publish never
// blocks; events are dropped when the buffer is full.
type EventHub struct {
	logger  *zap.Logger
	events  chan Event
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	dropped atomic.Int64
}

// NewEventHub creates an EventHub and starts its broadcaster.
func NewEventHub(logger *zap.Logger) *EventHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &EventHub{
		logger:  logger.Named("events"),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// Publish queues an action for broadcast.
func (h *EventHub) Publish(a control.Action) {
	ev := Event{
		Kind:      a.Kind,
		Mode:      a.Mode,
		X:         a.X,
		Y:         a.Y,
		Amount:    a.Amount,
		Timestamp: time.Now().UnixMilli(),
	}
	select {
	case h.events <- ev:
	default:
		h.dropped.Add(1)
	}
}

// Clients returns the number of connected clients.
func (h *EventHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the broadcaster and disconnects every client.
func (h *EventHub) Close() {
	h.once.Do(func() {
		close(h.done)
		<-h.stopped

		h.mu.Lock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	})
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends queued events to all connected clients.
func (h *EventHub) broadcast() {
	defer close(h.stopped)

	for {
		select {
		case <-h.done:
			return
		case ev := <-h.events:
			msg, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("failed to encode event", zap.Error(err))
				continue
			}

			h.mu.RLock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.logger.Debug("dropping slow websocket client", zap.Error(err))
					conn.Close()
				}
			}
			h.mu.RUnlock()
		}
	}
}
