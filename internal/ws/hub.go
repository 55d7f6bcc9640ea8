package ws

import (
	"encoding/json"
	"sync"
)

// Message is the envelope pushed to every subscriber.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client is a single subscriber connection.
type Client struct {
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func NewClient(buffer int) *Client {
	return &Client{Send: make(chan []byte, buffer)}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.hub != nil {
		c.hub.unregister(c)
	}
	close(c.Send)
}

// offer queues data without blocking; a full buffer drops the message.
func (c *Client) offer(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub keeps the set of live countdown subscribers. It holds connections
// only; the timer itself is always read from the store.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Broadcast sends an event to every subscriber. Slow subscribers miss it.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := Encode(event, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.offer(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func Encode(event string, payload any) ([]byte, error) {
	return json.Marshal(Message{Type: event, Data: payload})
}
