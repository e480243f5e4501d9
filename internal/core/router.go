package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/okunev/pingchat-server/internal/store"
)

// Router resolves a send request into persisted state plus zero, one, or two
// realtime pushes.
type Router struct {
	registry *Registry
	sessions *SessionManager
	users    store.UserStore
	messages store.MessageStore
	log      *zerolog.Logger
}

// NewRouter creates a message router.
func NewRouter(registry *Registry, sessions *SessionManager, users store.UserStore, messages store.MessageStore, logger *zerolog.Logger) *Router {
	return &Router{
		registry: registry,
		sessions: sessions,
		users:    users,
		messages: messages,
		log:      logger,
	}
}

// Route persists the message and pushes it to the receiver's live
// connections. If the receiver is offline the envelope is echoed back to the
// sender's own connections as a persistence acknowledgment; if neither party
// is connected the message is persisted with no push, which is a success.
//
// Persistence happens before any push, so a failed write never produces an
// undelivered-but-acknowledged push. Profile resolution failure for either
// party aborts the send with nothing persisted.
func (r *Router) Route(ctx context.Context, senderID, receiverID int64, body string) (*store.Message, error) {
	sender, err := r.users.GetUserByID(ctx, senderID)
	if err != nil {
		r.log.Warn().Err(err).Int64("sender_id", senderID).Msg("resolve sender")
		return nil, coreError(ErrCodeUserNotFound, "sender not found")
	}

	receiver, err := r.users.GetUserByID(ctx, receiverID)
	if err != nil {
		r.log.Warn().Err(err).Int64("receiver_id", receiverID).Msg("resolve receiver")
		return nil, coreError(ErrCodeUserNotFound, "receiver not found")
	}

	msg := &store.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.messages.SaveMessage(ctx, msg); err != nil {
		r.log.Error().Err(err).Msg("persist message")
		return nil, coreError(ErrCodePersistenceFailed, "failed to persist message")
	}

	event := &Event{
		Kind: EventDirectMessage,
		Envelope: &Envelope{
			MessageID: msg.ID,
			Sender:    profileOf(sender),
			Receiver:  profileOf(receiver),
			Body:      body,
			SentAt:    msg.CreatedAt,
		},
	}

	r.sessions.Push(r.deliveryTargets(senderID, receiverID), event)
	return msg, nil
}

// deliveryTargets re-reads the registry immediately before the push so that a
// receiver disconnecting between the send request and the push cannot leave
// the message aimed at a stale connection. Receiver connections win; if there
// are none, the sender's own connections get the echo-back; otherwise no push.
func (r *Router) deliveryTargets(senderID, receiverID int64) []string {
	if targets := r.registry.Lookup(receiverID); len(targets) > 0 {
		return targets
	}
	return r.registry.Lookup(senderID)
}

func profileOf(user *store.User) Profile {
	return Profile{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}
}
