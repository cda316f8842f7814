// README: Chat handlers (create session, read history, send one message).
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dinesmart/internal/modules/conversation"
)

// ConversationService is the subset of conversation.Service used by the chat handlers.
type ConversationService interface {
	CreateSession(ctx context.Context) (string, []conversation.Turn, error)
	History(ctx context.Context, sessionID string) ([]conversation.Turn, error)
	Handle(ctx context.Context, sessionID, input string) (string, error)
}

type ChatHandler struct {
	conversation ConversationService
	log          zerolog.Logger
}

func NewChatHandler(svc ConversationService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{conversation: svc, log: logger}
}

type sessionResp struct {
	SessionID string              `json:"session_id"`
	History   []conversation.Turn `json:"history"`
}

type messageReq struct {
	Message string `json:"message"`
}

type messageResp struct {
	Reply   string              `json:"reply"`
	History []conversation.Turn `json:"history"`
}

// CreateSession handles POST /api/sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	id, history, err := h.conversation.CreateSession(c.Request.Context())
	if err != nil {
		h.fail(c, "", err)
		return
	}
	writeJSON(c, http.StatusCreated, sessionResp{SessionID: id, History: history})
}

// GetSession handles GET /api/sessions/:id.
func (h *ChatHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	history, err := h.conversation.History(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	writeJSON(c, http.StatusOK, sessionResp{SessionID: id, History: history})
}

// PostMessage handles POST /api/sessions/:id/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}

	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}

	reply, err := h.conversation.Handle(c.Request.Context(), id, req.Message)
	if err != nil {
		h.fail(c, id, err)
		return
	}

	history, err := h.conversation.History(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	writeJSON(c, http.StatusOK, messageResp{Reply: reply, History: history})
}

func (h *ChatHandler) fail(c *gin.Context, sessionID string, err error) {
	if writeConversationError(c, err) {
		h.log.Error().Err(err).Str("session_id", sessionID).Str("path", c.FullPath()).Msg("chat request failed")
	}
}
