package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// SessionManager owns the lifecycle of realtime connections
// (open -> registered -> closed) and relays registry changes to them. It is
// injected into the transport and the router rather than living as ambient
// state, so its process-wide lifetime is an explicit contract.
type SessionManager struct {
	mu       sync.RWMutex
	clients  map[string]*Client // open connections by connection id
	registry *Registry
	log      *zerolog.Logger
}

// NewSessionManager creates a session manager over the given registry.
func NewSessionManager(registry *Registry, logger *zerolog.Logger) *SessionManager {
	return &SessionManager{
		clients:  make(map[string]*Client),
		registry: registry,
		log:      logger,
	}
}

// Connect tracks a newly opened connection. The connection cannot be targeted
// by message delivery until RegisterPresence associates it with a user.
func (m *SessionManager) Connect(client *Client) {
	m.mu.Lock()
	m.clients[client.ID] = client
	m.mu.Unlock()

	m.log.Debug().Str("conn_id", client.ID).Msg("connection opened")
}

// RegisterPresence associates the connection with a user. Repeated
// registrations with the same user are accepted and are no-ops against the
// registry; only an effective change triggers a presence broadcast.
func (m *SessionManager) RegisterPresence(connID string, userID int64) {
	m.mu.RLock()
	_, open := m.clients[connID]
	m.mu.RUnlock()
	if !open {
		m.log.Warn().Str("conn_id", connID).Msg("register on unknown connection")
		return
	}

	if m.registry.Register(userID, connID) {
		m.log.Debug().Str("conn_id", connID).Int64("user_id", userID).Msg("presence registered")
		m.broadcastPresence()
	}
}

// Disconnect closes the connection: it is removed from the open set and every
// registry entry for it is pruned. Closed is terminal; calling Disconnect
// again is a no-op.
func (m *SessionManager) Disconnect(connID string) {
	m.mu.Lock()
	_, open := m.clients[connID]
	delete(m.clients, connID)
	m.mu.Unlock()

	m.registry.UnregisterConn(connID)

	if open {
		m.log.Debug().Str("conn_id", connID).Msg("connection closed")
		m.broadcastPresence()
	}
}

// Logout removes every presence entry for the user, which may include entries
// belonging to other connections of the same user. The connections themselves
// stay open.
func (m *SessionManager) Logout(userID int64) {
	m.registry.UnregisterUser(userID)

	m.log.Debug().Int64("user_id", userID).Msg("user logged out")
	m.broadcastPresence()
}

// Push delivers an event to the given connections. Connections that closed
// since the lookup are skipped.
func (m *SessionManager) Push(connIDs []string, event *Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, connID := range connIDs {
		if client, ok := m.clients[connID]; ok {
			client.send(event)
		}
	}
}

// broadcastPresence emits the full presence snapshot to every open
// connection, registered or not. O(n) fan-out per change; fine at this scale.
func (m *SessionManager) broadcastPresence() {
	event := &Event{Kind: EventPresence, Presence: m.registry.Snapshot()}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, client := range m.clients {
		client.send(event)
	}
}
