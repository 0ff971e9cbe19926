package realtime

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub is the connection registry and room layer. It tracks every connected
// client plus an at-most-one mapping from user ID to the client currently
// representing that user. A user's room is addressed by their user ID, so
// registration is also the room join.
//
// The hub is concurrency-safe. Delivery is best effort: sends to a client
// whose outbound buffer is full are dropped, and sends to an absent user are
// silently ignored. Missed events are recovered by the polling fetch path.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	users   map[string]*Client
	log     zerolog.Logger
}

// NewHub creates an empty Hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		users:   make(map[string]*Client),
		log:     log,
	}
}

// Register binds userID to client, superseding any previous registration for
// the same user (last join wins). The evicted client, if any and distinct,
// is closed so stale connections do not linger.
func (h *Hub) Register(userID string, client *Client) {
	if userID == "" || client == nil {
		return
	}

	h.mu.Lock()
	previous := h.users[userID]
	h.users[userID] = client
	client.userID = userID
	h.mu.Unlock()

	if previous != nil && previous != client {
		previous.close()
		h.log.Debug().Str("user_id", userID).Msg("superseded previous connection")
	}
	h.log.Info().Str("user_id", userID).Str("socket_id", client.socketID).Msg("user joined room")
}

// Lookup returns the client currently registered for userID, or nil
func (h *Hub) Lookup(userID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.users[userID]
}

// Remove drops the registration for userID if present. No-op when absent.
func (h *Hub) Remove(userID string) {
	if userID == "" {
		return
	}
	h.mu.Lock()
	delete(h.users, userID)
	h.mu.Unlock()
}

// attach adds a transport connection to the hub
func (h *Hub) attach(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
}

// detach removes a connection and, when it is still the registered connection
// for its user, clears that registration too. A connection evicted by a newer
// join for the same user must not remove the newer mapping.
func (h *Hub) detach(client *Client) {
	h.mu.Lock()
	delete(h.clients, client)
	if client.userID != "" && h.users[client.userID] == client {
		delete(h.users, client.userID)
	}
	h.mu.Unlock()
}

// BroadcastExcept delivers an event to every connected client other than
// sender. Undeliverable clients are skipped.
func (h *Hub) BroadcastExcept(sender *Client, event string, data interface{}) {
	frame, err := marshalEnvelope(event, data)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("failed to encode broadcast")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c != sender {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(frame)
	}
}

// SendToUser delivers an event to the room of userID. Returns false when no
// connection is registered for that user; the event is dropped, never queued.
func (h *Hub) SendToUser(userID, event string, data interface{}) bool {
	client := h.Lookup(userID)
	if client == nil {
		return false
	}

	frame, err := marshalEnvelope(event, data)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("failed to encode room send")
		return false
	}
	return client.enqueue(frame)
}

// ConnectedCount reports the number of attached transport connections
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
