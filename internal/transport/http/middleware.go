package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/okunev/pingchat-server/internal/auth"
)

// ContextKeyUser is the context key for the resolved authenticated user.
const ContextKeyUser = "user"

// AuthMiddleware validates the bearer credential and resolves it to a user
// profile. A missing header rejects with 400, an unresolvable token with 422,
// matching the API contract.
func AuthMiddleware(authService *auth.Service, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug().Msg("missing authorization header")
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Token not found"})
			c.Abort()
			return
		}

		// Accept both a bare token and the "Bearer <token>" form.
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		user, err := authService.ResolveToken(c.Request.Context(), token)
		if err != nil {
			logger.Debug().Err(err).Msg("invalid token")
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Invalid Token"})
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// LoggerMiddleware logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}

// CORSMiddleware allows the browser client served from another origin.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
