package core

import (
	"sort"
	"sync"
)

// Entry pairs a user identity with one of its live connections.
type Entry struct {
	UserID int64
	ConnID string
}

// Registry is the process-wide presence set: the authoritative source of
// "is this user currently reachable". It holds at most one entry per
// connection, while a user may map to any number of connections; entries
// accumulate until explicitly removed. It is rebuilt empty on restart and
// never persisted.
//
// All operations are total: none of them can fail.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]int64 // connection id -> user id
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]int64)}
}

// Register adds an entry for (user, conn). Registering an identical pair
// again is a no-op. If the connection was registered to a different user the
// new registration wins, keeping the one-entry-per-connection invariant.
// Returns true if the registry changed.
func (r *Registry) Register(userID int64, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.conns[connID]; ok && current == userID {
		return false
	}
	r.conns[connID] = userID
	return true
}

// UnregisterConn removes the entry for the connection, if any. Used on
// transport-level disconnect. Returns true if an entry was removed.
func (r *Registry) UnregisterConn(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[connID]; !ok {
		return false
	}
	delete(r.conns, connID)
	return true
}

// UnregisterUser removes every entry for the user, across all of its
// connections. Used on explicit logout. Returns true if anything was removed.
func (r *Registry) UnregisterUser(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for connID, uid := range r.conns {
		if uid == userID {
			delete(r.conns, connID)
			removed = true
		}
	}
	return removed
}

// Lookup returns the user's live connections. The result is a fresh read;
// callers that are about to push must call this immediately before pushing,
// not reuse an earlier read.
func (r *Registry) Lookup(userID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var connIDs []string
	for connID, uid := range r.conns {
		if uid == userID {
			connIDs = append(connIDs, connID)
		}
	}
	sort.Strings(connIDs)
	return connIDs
}

// Snapshot returns the full current presence set, ordered for stable
// broadcast payloads.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.conns))
	for connID, uid := range r.conns {
		entries = append(entries, Entry{UserID: uid, ConnID: connID})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UserID != entries[j].UserID {
			return entries[i].UserID < entries[j].UserID
		}
		return entries[i].ConnID < entries[j].ConnID
	})
	return entries
}
