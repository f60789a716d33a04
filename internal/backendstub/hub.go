package backendstub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"parkdesk/internal/entities"
)

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes to the connection
}

func (c *wsClient) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub fans push frames out to every connected socket.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newHub() *Hub {
	return &Hub{clients: make(map[*wsClient]struct{})}
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Broadcast sends one event frame to all clients. Failed writes drop the
// client; its read loop will clean up the connection.
func (h *Hub) Broadcast(kind entities.EventKind, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("marshal %s event: %v", kind, err)
		return
	}
	payload, err := json.Marshal(entities.Event{Kind: kind, Data: raw})
	if err != nil {
		log.Printf("marshal %s frame: %v", kind, err)
		return
	}
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		if err := c.send(payload); err != nil {
			log.Printf("push %s frame: %v", kind, err)
			h.remove(c)
		}
	}
}
