// Package broadcast fans advisory refresh events out to every connected
// client. Payloads only tell receivers what kind of state changed; receivers
// are expected to re-fetch, never to trust the message as the data itself.
package broadcast

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

const (
	EventBoard        = "board"
	EventDirectory    = "directory"
	EventSession      = "session"
	EventNotification = "notification"
)

type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Handler func(Event)

type Hub struct {
	mu    sync.RWMutex
	conns map[string]*websocket.Conn
	subs  []Handler
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]*websocket.Conn)}
}

// Subscribe registers an in-process handler. Handlers run synchronously on
// the publishing goroutine and must not block.
func (h *Hub) Subscribe(fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = append(h.subs, fn)
}

func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()

	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()

	return id
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	subs := make([]Handler, len(h.subs))
	copy(subs, h.subs)

	// Copy the connections so the lock is not held while writing
	ids := make([]string, 0, len(h.conns))
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for id, conn := range h.conns {
		ids = append(ids, id)
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, fn := range subs {
		fn(event)
	}

	for i, conn := range conns {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			log.Printf("Failed to broadcast %s event to client: %v", event.Type, err)
			h.Unregister(ids[i])
			conn.Close()
		}
	}
}
