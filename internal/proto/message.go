package proto

import "encoding/json"

// Inbound is the envelope for realtime messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeAddUser     = "addUser"
	InboundTypeSendMessage = "sendMessage"
	InboundTypeLogOut      = "logOut"

	OutboundTypeGetUsers   = "getUsers"
	OutboundTypeGetMessage = "getMessage"
	OutboundTypeError      = "error"
)

// AddUserData registers the connection's presence for a user.
type AddUserData struct {
	UserID int64 `json:"userId"`
}

// SendMessageData is a direct message send request from the client.
type SendMessageData struct {
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Message    string `json:"message"`
}

// LogOutData removes every presence entry for a user.
type LogOutData struct {
	UserID int64 `json:"userId"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// PresenceEntry is one element of a getUsers broadcast.
type PresenceEntry struct {
	UserID int64  `json:"userId"`
	ConnID string `json:"connectionId"`
}

// UserProfile is a resolved user without credentials.
type UserProfile struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// EventMessage is the getMessage payload pushed to targeted connections. The
// sender/receiver keys carry resolved profiles.
type EventMessage struct {
	ID       int64       `json:"id"`
	Sender   UserProfile `json:"senderId"`
	Receiver UserProfile `json:"receiverId"`
	Message  string      `json:"message"`
	SentAt   int64       `json:"sentAt"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
