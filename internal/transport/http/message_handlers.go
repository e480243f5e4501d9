package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/okunev/pingchat-server/internal/store"
)

// MessageHandlers provides HTTP handlers for message history operations.
// These are plain persistence CRUD: the realtime path goes through the
// core router on the websocket side.
type MessageHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(st store.Store, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		store: st,
		log:   logger,
	}
}

// SendMessageRequest represents the send message request body.
type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// ListMessagesRequest represents the conversation history request body.
type ListMessagesRequest struct {
	AnotherUserID int64 `json:"anotherUserId" binding:"required"`
}

// MessageData represents a message with resolved sender/receiver profiles.
type MessageData struct {
	ID       int64        `json:"id"`
	Sender   UserResponse `json:"senderId"`
	Receiver UserResponse `json:"receiverId"`
	Message  string       `json:"message"`
	SentAt   string       `json:"sentAt"`
}

// MessageResponse wraps a single sent message.
type MessageResponse struct {
	Data    MessageData `json:"data"`
	Message string      `json:"message"`
}

// MessagesResponse wraps a conversation.
type MessagesResponse struct {
	Data    []MessageData `json:"data"`
	Message string        `json:"message"`
}

// SendMessage persists a direct message and returns it with resolved
// profiles. It does not push to live connections.
// POST /sendMessage
func (h *MessageHandlers) SendMessage(c *gin.Context) {
	sender, ok := currentUser(c)
	if !ok {
		h.log.Error().Msg("user not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid send message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "receiverId and message are required"})
		return
	}

	receiver, err := h.store.GetUserByID(c.Request.Context(), req.ReceiverID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "receiver not found"})
			return
		}
		h.log.Error().Err(err).Int64("receiver_id", req.ReceiverID).Msg("failed to resolve receiver")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	msg := &store.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Body:       req.Message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.store.SaveMessage(c.Request.Context(), msg); err != nil {
		h.log.Error().Err(err).Msg("failed to save message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Data:    messageData(msg, sender, receiver),
		Message: "Message sent successfully",
	})
}

// ListMessages returns the conversation between the requester and another
// user, oldest first, with profiles resolved on every record.
// POST /messages
func (h *MessageHandlers) ListMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.log.Error().Msg("user not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ListMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid list messages request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "anotherUserId is required"})
		return
	}

	other, err := h.store.GetUserByID(c.Request.Context(), req.AnotherUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", req.AnotherUserID).Msg("failed to resolve user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	messages, err := h.store.ListConversation(c.Request.Context(), user.ID, other.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list conversation")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	data := make([]MessageData, 0, len(messages))
	for _, msg := range messages {
		sender, receiver := user, other
		if msg.SenderID == other.ID {
			sender, receiver = other, user
		}
		data = append(data, messageData(msg, sender, receiver))
	}

	c.JSON(http.StatusOK, MessagesResponse{
		Data:    data,
		Message: "messages fetched successfully",
	})
}

func messageData(msg *store.Message, sender, receiver *store.User) MessageData {
	return MessageData{
		ID:       msg.ID,
		Sender:   userResponse(sender),
		Receiver: userResponse(receiver),
		Message:  msg.Body,
		SentAt:   msg.CreatedAt.Format(time.RFC3339),
	}
}
