package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/okunev/pingchat-server/internal/store"
)

// UserHandlers provides HTTP handlers for user operations.
type UserHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.Store, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store: st,
		log:   logger,
	}
}

// UserResponse represents a user in API responses, without credentials.
type UserResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func userResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
	}
}

// UsersResponse wraps the user list.
type UsersResponse struct {
	Data    []UserResponse `json:"data"`
	Message string         `json:"message"`
}

// currentUser returns the authenticated user stored by AuthMiddleware.
func currentUser(c *gin.Context) (*store.User, bool) {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*store.User)
	return user, ok
}

// ListUsers lists every user except the requester.
// GET /users
func (h *UserHandlers) ListUsers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.log.Error().Msg("user not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	users, err := h.store.ListUsers(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to list users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, userResponse(u))
	}

	c.JSON(http.StatusOK, UsersResponse{
		Data:    response,
		Message: "fetched users successfully",
	})
}
