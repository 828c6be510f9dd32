package notify

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/rs/xid"

	"github.com/sakif/assignment-hub/internal/metrics"
	"github.com/sakif/assignment-hub/internal/model"
)

// DefaultBuffer is the per-client queue length used when NewHub gets <= 0.
const DefaultBuffer = 16

var ErrHubClosed = errors.New("notify: hub is closed")

// Client is one registered receiver. The transport reads Events() until the
// channel is closed, which happens on Unregister, on overflow, or on Close.
type Client struct {
	ID     string
	UserID string
	Role   model.Role

	send chan Event
	once sync.Once
}

// Events is the client's queue. A closed channel means "stop, you're done".
func (c *Client) Events() <-chan Event {
	return c.send
}

func (c *Client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub is the registry of connected clients. It is created by the server,
// handed to the services as their publisher, and closed on shutdown.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
	buffer  int
	closed  bool

	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHub(buffer int, m *metrics.Metrics, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		clients: make(map[string]*Client),
		buffer:  buffer,
		metrics: m,
		logger:  logger,
	}
}

// Register adds a client for the given identity.
func (h *Hub) Register(identity model.Identity) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	c := &Client{
		ID:     xid.New().String(),
		UserID: identity.UserID,
		Role:   identity.Role,
		send:   make(chan Event, h.buffer),
	}
	h.clients[c.ID] = c
	h.metrics.ClientConnected()
	return c, nil
}

// Unregister removes c and closes its queue. Calling it for a client that was
// already dropped or unregistered is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// Publish queues e for every eligible client without blocking. A client whose
// queue is full is dropped: its channel is closed and the transport hangs up.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for _, c := range h.clients {
		if !e.deliverableTo(c) {
			continue
		}
		select {
		case c.send <- e:
		default:
			h.removeLocked(c)
			h.metrics.ClientDropped()
			h.logger.Warn("dropping slow event client",
				slog.String("clientID", c.ID),
				slog.String("userID", c.UserID),
				slog.String("event", string(e.Type)),
			)
		}
	}
}

// Close disconnects every client. Later Register calls fail and later
// Publish calls do nothing.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, c := range h.clients {
		h.removeLocked(c)
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	c.close()
	h.metrics.ClientDisconnected()
}
