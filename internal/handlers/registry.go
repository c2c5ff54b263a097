package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/promptfall/promptfall/internal/game"
)

// Client is a single live connection: its id, outbound event queue and
// the cancel that tears the connection down. The registry exclusively
// owns the transport handle; everything else addresses the client by id.
type Client struct {
	ID      uuid.UUID
	OutChan chan game.Event

	cancel context.CancelFunc
	once   sync.Once
}

func NewClient(id uuid.UUID, cancel context.CancelFunc) *Client {
	return &Client{
		ID:      id,
		OutChan: make(chan game.Event, 32),
		cancel:  cancel,
	}
}

// Send queues an event without blocking. A full queue means the client
// cannot keep up; it is disconnected rather than allowed to stall the
// sender. Returns false when the event was dropped.
func (c *Client) Send(ev game.Event) bool {
	select {
	case c.OutChan <- ev:
		return true
	default:
		c.Close()
		return false
	}
}

// Close cancels the connection's context exactly once. The read and
// write pumps observe the cancellation and exit; cleanup (unregister,
// implicit room leave) runs in the connection handler.
func (c *Client) Close() {
	c.once.Do(c.cancel)
}

// Registry maps connection ids to live clients and provides the
// point-to-point send the rooms fan out through. Entries are independent;
// there is no cross-key invariant, so a plain RWMutex map suffices.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[uuid.UUID]*Client)}
}

func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

func (r *Registry) Get(id uuid.UUID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

// Send delivers an event to one connection. Unknown ids are dropped
// silently: the recipient may have disconnected between event production
// and delivery, which is handled by the leave path.
func (r *Registry) Send(id uuid.UUID, ev game.Event) {
	r.mu.RLock()
	c, ok := r.clients[id]
	r.mu.RUnlock()
	if ok {
		c.Send(ev)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// CloseAll disconnects every client. Part of server shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		c.Close()
		delete(r.clients, id)
	}
}
