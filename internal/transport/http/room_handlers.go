package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sdchat/sdchat-server/internal/core"
	"github.com/sdchat/sdchat-server/internal/utils"
)

// RoomHandlers provides HTTP handlers for room ids and message submission.
type RoomHandlers struct {
	broker *core.Broker
	log    *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(broker *core.Broker, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		broker: broker,
		log:    logger,
	}
}

// RoomIDResponse carries a freshly generated room id.
type RoomIDResponse struct {
	RoomID string `json:"room_id"`
}

// SubmitRequest represents the message submission request body.
type SubmitRequest struct {
	Text string `json:"text"`
}

// MessageResponse is the stamped message returned to the submitter.
type MessageResponse struct {
	ID     string `json:"id"`
	Room   string `json:"room"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	SentAt int64  `json:"sent_at"`
}

// GenerateRoomID hands out a short room id for the landing screen. Room
// ids are opaque to the server; clients may just as well invent their own.
// POST /api/rooms/id
func (h *RoomHandlers) GenerateRoomID(c *gin.Context) {
	c.JSON(http.StatusOK, RoomIDResponse{RoomID: utils.NewRoomID()})
}

// SubmitMessage submits a message to a room on behalf of the signed-in
// sender and returns the stamped message. Subscribers, including the
// submitter's own WebSocket, receive it through fanout.
// POST /api/rooms/:roomId/messages
func (h *RoomHandlers) SubmitMessage(c *gin.Context) {
	sender, ok := senderFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	roomID := c.Param("roomId")
	msg, err := h.broker.Submit(c.Request.Context(), roomID, sender, req.Text)
	if err != nil {
		if errors.Is(err, core.ErrInvalidMessage) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message"})
			return
		}
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to submit message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		ID:     msg.ID,
		Room:   msg.Room,
		Sender: msg.Sender.Name,
		Text:   msg.Text,
		SentAt: msg.SentAt.Unix(),
	})
}
