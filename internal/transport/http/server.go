package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sdchat/sdchat-server/internal/auth"
	"github.com/sdchat/sdchat-server/internal/config"
	"github.com/sdchat/sdchat-server/internal/core"
)

// NewServer builds the HTTP server: REST API for sessions and rooms, the
// WebSocket endpoint for the live message stream, and a health probe.
func NewServer(broker *core.Broker, authService *auth.Service, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	sessionHandlers := NewSessionHandlers(authService, logger)
	roomHandlers := NewRoomHandlers(broker, logger)

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	api := router.Group("/api")
	{
		api.POST("/session", sessionHandlers.SignIn)
		api.POST("/rooms/id", roomHandlers.GenerateRoomID)

		authed := api.Group("")
		authed.Use(AuthMiddleware(authService, logger))
		{
			authed.GET("/session", sessionHandlers.WhoAmI)
			authed.DELETE("/session", sessionHandlers.SignOut)
			authed.POST("/rooms/:roomId/messages", roomHandlers.SubmitMessage)
		}
	}

	router.GET("/ws", gin.WrapH(NewWSHandler(broker, authService, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
