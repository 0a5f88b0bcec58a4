package ws

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type message struct {
	topic   string
	payload []byte
}

// Hub fans events out to connected clients. Clients with no subscriptions receive every topic.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     logrus.FieldLogger
}

func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 256),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.WithField("total_clients", total).Debug("[WS] connected")

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				if c.wants(msg.topic) {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, c := range targets {
				select {
				case c.send <- msg.payload:
				default:
					h.remove(c)
				}
			}
			h.logger.WithFields(logrus.Fields{"topic": msg.topic, "clients": len(targets)}).Debug("[WS] broadcast")
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.WithField("total_clients", len(h.clients)).Debug("[WS] disconnected")
	}
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Publish queues payload for topic without blocking. Events are dropped when the queue is full.
func (h *Hub) Publish(topic string, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message{topic: topic, payload: payload}:
	default:
		h.logger.WithField("topic", topic).Warn("[WS] broadcast dropped, buffer full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
