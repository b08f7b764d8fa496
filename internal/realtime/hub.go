// Package realtime pushes notification inserts to connected dentists.
// Every client listens on exactly one topic, fixed when it connects.
package realtime

import (
	"sync"

	"github.com/rs/zerolog"
)

type Client struct {
	ID    string
	Topic string
	Send  chan []byte
}

// Hub tracks connected clients per topic. Publish never blocks: a client
// whose buffer is full misses the message and recovers from its backlog on
// the next session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		log:     log.With().Str("component", "realtime_hub").Logger(),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.Topic] == nil {
		h.clients[c.Topic] = make(map[*Client]struct{})
	}
	h.clients[c.Topic][c] = struct{}{}
}

// Unregister removes the client and closes its Send channel. Safe to call
// more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.clients[c.Topic]
	if !ok {
		return
	}
	if _, ok := subs[c]; !ok {
		return
	}

	delete(subs, c)
	if len(subs) == 0 {
		delete(h.clients, c.Topic)
	}
	close(c.Send)
}

func (h *Hub) Publish(topic string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients[topic] {
		select {
		case c.Send <- payload:
			delivered++
		default:
			h.log.Warn().Str("client", c.ID).Str("topic", topic).Msg("client buffer full, dropping message")
		}
	}
	return delivered
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, subs := range h.clients {
		n += len(subs)
	}
	return n
}

// TopicCount is the number of topics with at least one open client.
func (h *Hub) TopicCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
