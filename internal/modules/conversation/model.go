// README: Conversation turn model, context window and module errors.
package conversation

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContextWindow is how many trailing turns are sent to the model.
const ContextWindow = 5

// Greeting seeds every new session.
const Greeting = "Hi there! How can I help you today with restaurants ?"

var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrBadRequest             = errors.New("bad request")
	ErrTurnCancelled          = errors.New("turn cancelled")
	ErrUnexpectedFunctionCall = errors.New("model answered a function response with another function call")
)

type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Window returns at most the last n turns, preserving order.
func Window(turns []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(turns) > n {
		return turns[len(turns)-n:]
	}
	return turns
}

// BuildContext joins the contents of the trailing ContextWindow turns with newlines.
func BuildContext(turns []Turn) string {
	window := Window(turns, ContextWindow)
	parts := make([]string, len(window))
	for i, t := range window {
		parts[i] = t.Content
	}
	return strings.Join(parts, "\n")
}
