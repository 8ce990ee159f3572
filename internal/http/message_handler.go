package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/service"
)

const streamKeepAlive = 25 * time.Second

// MessageHandler expone el chat entre estudiantes y con propietarios.
type MessageHandler struct {
	logger    *zap.Logger
	chats     *service.ChatStore
	users     *service.UserService
	keepAlive time.Duration
}

func NewMessageHandler(logger *zap.Logger, chats *service.ChatStore, users *service.UserService) *MessageHandler {
	return &MessageHandler{
		logger:    logger,
		chats:     chats,
		users:     users,
		keepAlive: streamKeepAlive,
	}
}

// Send maneja POST /messages/:participant_id. Responde 404 si el destinatario no existe.
func (h *MessageHandler) Send(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req struct {
		Text string                  `json:"text" binding:"required"`
		Type domain.ConversationType `json:"type" binding:"omitempty,oneof=roommate landlord"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "send message", err)
		return
	}
	convType := req.Type
	if convType == "" {
		convType = domain.ConversationRoommate
	}

	// El destinatario tiene que existir como usuario.
	recipient := c.Param("participant_id")
	if _, err := h.users.Get(c.Request.Context(), recipient); err != nil {
		respondError(c, h.logger, "send message", err)
		return
	}

	msg, err := h.chats.AddMessage(claims.UserID, recipient, req.Text, convType)
	if err != nil {
		respondError(c, h.logger, "send message", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// History maneja GET /messages/:participant_id. Sin conversación devuelve una lista vacia.
func (h *MessageHandler) History(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	other := c.Param("participant_id")
	conv, err := h.chats.Conversation(claims.UserID, other)
	if errors.Is(err, service.ErrConversationNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"conversation_id": domain.ConversationID(claims.UserID, other),
			"messages":        []domain.ChatMessage{},
			"unread_count":    0,
		})
		return
	}
	if err != nil {
		respondError(c, h.logger, "get conversation", err)
		return
	}
	messages := conv.Messages
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conv.ID,
		"type":            conv.Type,
		"messages":        messages,
		"unread_count":    conv.Unread[claims.UserID],
	})
}

// MarkRead maneja POST /messages/:participant_id/read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	if err := h.chats.MarkAsRead(claims.UserID, c.Param("participant_id")); err != nil {
		respondError(c, h.logger, "mark conversation read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_unread": h.chats.TotalUnread(claims.UserID)})
}

// List maneja GET /messages.
func (h *MessageHandler) List(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversations":        h.chats.Summaries(claims.UserID),
		"total_unread":         h.chats.TotalUnread(claims.UserID),
		"active_conversations": h.chats.ActiveConversationCount(claims.UserID),
	})
}

// Stream maneja GET /messages/stream: eventos del chat del usuario como Server-Sent Events.
// El primer evento es "ready" con el total de no leidos.
func (h *MessageHandler) Stream(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	events, unsubscribe := h.chats.Subscribe(claims.UserID)
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.SSEvent("ready", gin.H{"total_unread": h.chats.TotalUnread(claims.UserID)})
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			c.SSEvent(string(ev.Type), ev)
			c.Writer.Flush()
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			c.Writer.Flush()
		}
	}
}
