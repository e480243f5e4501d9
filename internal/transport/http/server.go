package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/okunev/pingchat-server/internal/auth"
	"github.com/okunev/pingchat-server/internal/config"
	"github.com/okunev/pingchat-server/internal/core"
	"github.com/okunev/pingchat-server/internal/store"
)

// NewServer builds the HTTP server: REST surface plus the websocket endpoint.
func NewServer(sessions *core.SessionManager, router *core.Router, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(logger))
	engine.Use(CORSMiddleware(cfg.AllowedOrigin))

	apiHandlers := NewAPIHandlers(authService, logger)
	userHandlers := NewUserHandlers(st, logger)
	messageHandlers := NewMessageHandlers(st, logger)
	wsHandler := NewWSHandler(sessions, router, logger)

	engine.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	engine.POST("/register", apiHandlers.Register)
	engine.POST("/login", apiHandlers.Login)

	authed := engine.Group("/", AuthMiddleware(authService, logger))
	authed.GET("/users", userHandlers.ListUsers)
	authed.POST("/sendMessage", messageHandlers.SendMessage)
	authed.POST("/messages", messageHandlers.ListMessages)

	engine.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
