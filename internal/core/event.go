package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventPresence delivers the full current presence set. Broadcast to all
	// open connections on every effective registry change.
	EventPresence EventKind = iota
	// EventDirectMessage delivers a message envelope to targeted connections.
	EventDirectMessage
	// EventError notifies a client about a domain error.
	EventError
)

// Profile is the resolved public view of a user, without credentials.
type Profile struct {
	ID       int64
	FullName string
	Email    string
}

// Envelope is the transient payload pushed for a delivered message. It is
// never persisted; it exists only for the duration of a push.
type Envelope struct {
	MessageID int64
	Sender    Profile
	Receiver  Profile
	Body      string
	SentAt    time.Time
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Presence []Entry   // for EventPresence
	Envelope *Envelope // for EventDirectMessage
	Error    *CoreError
}
