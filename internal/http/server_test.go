// README: End-to-end route tests with the real conversation service and scripted fakes.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"dinesmart/internal/ai"
	"dinesmart/internal/maps"
	"dinesmart/internal/modules/conversation"
)

type scriptedChat struct {
	replies []*ai.Reply
	step    int
}

func (c *scriptedChat) SendMessage(_ context.Context, _ string) (*ai.Reply, error) {
	r := c.replies[c.step]
	c.step++
	return r, nil
}

func (c *scriptedChat) SendFunctionResponse(_ context.Context, _ string, _ map[string]any) (*ai.Reply, error) {
	r := c.replies[c.step]
	c.step++
	return r, nil
}

type scriptedProvider struct{ chat *scriptedChat }

func (p scriptedProvider) StartChat() ai.ChatSession { return p.chat }

type staticSearcher struct{ calls int }

func (s *staticSearcher) Search(_ context.Context, _, _ string) (maps.Payload, error) {
	s.calls++
	return maps.Payload{"places": []any{map[string]any{"displayName": "Luigi's", "rating": 4.5}}}, nil
}

func TestRoutesConversationFlow(t *testing.T) {
	chat := &scriptedChat{replies: []*ai.Reply{
		{FunctionCall: &ai.FunctionCall{Name: ai.FuncCheckRestaurants, Args: map[string]any{"location": "Chicago", "cuisine": "Italian"}}},
		{Text: "Try Luigi's, rated 4.5."},
	}}
	searcher := &staticSearcher{}
	svc := conversation.NewService(conversation.NewMemoryStore(), scriptedProvider{chat: chat}, searcher, zerolog.Nop())
	handler := NewServer(ServerDeps{Conversation: svc, Logger: zerolog.Nop()}).Routes()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d", w.Code)
	}
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"message": "Find me Italian food in Chicago"})
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+created.SessionID+"/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("post message: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Reply   string              `json:"reply"`
		History []conversation.Turn `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Reply != "Try Luigi's, rated 4.5." {
		t.Errorf("unexpected reply %q", resp.Reply)
	}
	if searcher.calls != 1 {
		t.Errorf("expected one places search, got %d", searcher.calls)
	}
	want := []conversation.Role{conversation.RoleAssistant, conversation.RoleUser, conversation.RoleAssistant}
	if len(resp.History) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(resp.History))
	}
	for i, role := range want {
		if resp.History[i].Role != role {
			t.Errorf("turn %d: expected role %s, got %s", i, role, resp.History[i].Role)
		}
	}
	if resp.History[1].Content != "Find me Italian food in Chicago" {
		t.Errorf("unexpected user turn %q", resp.History[1].Content)
	}
}

func TestRoutesHealth(t *testing.T) {
	handler := NewServer(ServerDeps{Logger: zerolog.Nop()}).Routes()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("expected 200 OK, got %d %q", w.Code, w.Body.String())
	}
}
