package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/scene"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// stateInterval is the broadcast period, ~30 updates per second.
const stateInterval = 33 * time.Millisecond

// stateMessage is one broadcast frame: the latest gesture signal (null until
// a hand has been seen) and the object transform.
type stateMessage struct {
	Signal    *gesture.Signal `json:"signal"`
	Transform scene.Transform `json:"transform"`
	Timestamp int64           `json:"timestamp"`
}

// StateHandler broadcasts the live gesture signal and object transform via
// WebSocket.
type StateHandler struct {
	pipeline Pipeline
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
}

// NewStateHandler creates a new StateHandler reading from the given pipeline.
func NewStateHandler(p Pipeline) *StateHandler {
	h := &StateHandler{
		pipeline: p,
		clients:  make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
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

// broadcast sends the current state to all connected clients.
func (h *StateHandler) broadcast() {
	ticker := time.NewTicker(stateInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		state := stateMessage{
			Transform: h.pipeline.Animator().Snapshot(),
			Timestamp: time.Now().UnixMilli(),
		}
		if sig, ok := h.pipeline.LastSignal(); ok {
			state.Signal = &sig
		}

		msg, _ := json.Marshal(state)

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
