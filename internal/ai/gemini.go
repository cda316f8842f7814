package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.3
)

var errEmptyCandidates = errors.New("no response candidates from Gemini")

// GeminiConfig selects how the Gemini client authenticates.
// APIKey wins when set; otherwise CredentialsFile is used as a service account
// and ProjectID is billed as the quota project.
type GeminiConfig struct {
	APIKey          string
	CredentialsFile string
	ProjectID       string
	Model           string
}

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client with the restaurant tools attached.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(defaultTemperature)
	model.Tools = []*genai.Tool{RestaurantTool()}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func clientOptions(cfg GeminiConfig) []option.ClientOption {
	if cfg.APIKey != "" {
		return []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	}
	opts := []option.ClientOption{
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(
			"https://www.googleapis.com/auth/generative-language",
			"https://www.googleapis.com/auth/cloud-platform",
		),
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}
	return opts
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// StartChat opens an empty chat session.
func (p *GeminiProvider) StartChat() ChatSession {
	return &geminiSession{cs: p.model.StartChat()}
}

type geminiSession struct {
	cs *genai.ChatSession
}

func (s *geminiSession) SendMessage(ctx context.Context, text string) (*Reply, error) {
	resp, err := s.cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini send message: %w", err)
	}
	return replyFromResponse(resp)
}

func (s *geminiSession) SendFunctionResponse(ctx context.Context, name string, response map[string]any) (*Reply, error) {
	resp, err := s.cs.SendMessage(ctx, genai.FunctionResponse{Name: name, Response: response})
	if err != nil {
		return nil, fmt.Errorf("gemini send function response: %w", err)
	}
	return replyFromResponse(resp)
}

// replyFromResponse reads the first candidate. A function call anywhere in its
// parts takes precedence over text.
func replyFromResponse(resp *genai.GenerateContentResponse) (*Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errEmptyCandidates
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			return &Reply{FunctionCall: &FunctionCall{Name: p.Name, Args: p.Args}}, nil
		case *genai.FunctionCall:
			return &Reply{FunctionCall: &FunctionCall{Name: p.Name, Args: p.Args}}, nil
		case genai.Text:
			text.WriteString(string(p))
		}
	}
	return &Reply{Text: text.String()}, nil
}
