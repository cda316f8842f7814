// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dinesmart/internal/modules/conversation"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID ensures session IDs are UUIDs (matches the session ID generator).
func isValidID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeConversationError maps conversation errors to HTTP status codes and
// reports whether the failure is unexpected and worth logging.
func writeConversationError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, conversation.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, conversation.ErrSessionNotFound):
		writeError(c, http.StatusNotFound, conversation.ErrSessionNotFound.Error())
	case errors.Is(err, conversation.ErrTurnCancelled):
		writeError(c, http.StatusConflict, "superseded by a newer message")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
		return true
	}
	return false
}
