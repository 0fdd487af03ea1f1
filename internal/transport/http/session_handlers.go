package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sdchat/sdchat-server/internal/auth"
	"github.com/sdchat/sdchat-server/internal/core"
)

// SessionHandlers provides HTTP handlers for sign-in and sign-out.
type SessionHandlers struct {
	authService *auth.Service
	log         *zerolog.Logger
}

// NewSessionHandlers creates a new session handlers instance.
func NewSessionHandlers(authService *auth.Service, logger *zerolog.Logger) *SessionHandlers {
	return &SessionHandlers{
		authService: authService,
		log:         logger,
	}
}

// SignInRequest represents the sign-in request body.
type SignInRequest struct {
	Name string `json:"name" binding:"required,min=1,max=32"`
}

// SessionResponse represents the sign-in response body.
type SessionResponse struct {
	Token string `json:"token"`
}

// WhoAmIResponse reports the name bound to the caller's session.
type WhoAmIResponse struct {
	Name string `json:"name"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SignIn binds a display name to a fresh session token.
// POST /api/session
func (h *SessionHandlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid sign-in request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.SignIn(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid name"})
			return
		}
		h.log.Error().Err(err).Msg("failed to sign in")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("name", req.Name).Msg("participant signed in")
	c.JSON(http.StatusCreated, SessionResponse{Token: token})
}

// WhoAmI reports the sender identity bound to the request token.
// GET /api/session
func (h *SessionHandlers) WhoAmI(c *gin.Context) {
	sender, ok := senderFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, WhoAmIResponse{Name: sender.Name})
}

// SignOut revokes the caller's session.
// DELETE /api/session
func (h *SessionHandlers) SignOut(c *gin.Context) {
	token := c.GetString(ContextKeyToken)
	if err := h.authService.SignOut(c.Request.Context(), token); err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		h.log.Error().Err(err).Msg("failed to sign out")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// senderFromContext fetches the identity placed by AuthMiddleware.
func senderFromContext(c *gin.Context) (core.Sender, bool) {
	value, exists := c.Get(ContextKeySender)
	if !exists {
		return core.Sender{}, false
	}
	sender, ok := value.(core.Sender)
	return sender, ok
}
