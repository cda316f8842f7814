package ai

import (
	"context"
)

// ChatSession is a stateful conversation with the model. Calls on a session
// append to its history, so a function response continues the exchange that
// produced the function call.
type ChatSession interface {
	// SendMessage sends free text and returns the model's reply.
	SendMessage(ctx context.Context, text string) (*Reply, error)

	// SendFunctionResponse answers a previous FunctionCall by name.
	SendFunctionResponse(ctx context.Context, name string, response map[string]any) (*Reply, error)
}

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// StartChat opens a new session with the restaurant tools attached.
	StartChat() ChatSession
}
