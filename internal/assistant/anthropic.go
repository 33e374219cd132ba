package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

const (
	AnthropicResponderName = "anthropic"
	DefaultAnthropicModel  = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens       = 1024
)

type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// LLMGenerator answers through any langchaingo chat model. The Anthropic
// responder is the one the server builds.
type LLMGenerator struct {
	name      string
	model     llms.Model
	maxTokens int
	timeout   time.Duration
}

func NewLLMGenerator(name string, model llms.Model, maxTokens int, timeout time.Duration) *LLMGenerator {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &LLMGenerator{name: name, model: model, maxTokens: maxTokens, timeout: timeout}
}

func NewAnthropicGenerator(cfg AnthropicConfig) (*LLMGenerator, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}

	opts := []anthropic.Option{anthropic.WithToken(cfg.APIKey), anthropic.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create Anthropic client: %w", err)
	}

	return NewLLMGenerator(AnthropicResponderName, client, cfg.MaxTokens, cfg.Timeout), nil
}

func (g *LLMGenerator) Name() string {
	return g.name
}

func (g *LLMGenerator) Respond(ctx context.Context, req Request) (Reply, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt)}
	for _, msg := range conversation(req) {
		if msg.Role == RoleAssistant {
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, msg.Content))
		} else {
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		}
	}

	resp, err := g.model.GenerateContent(ctx, messages, llms.WithMaxTokens(g.maxTokens))
	if err != nil {
		slog.Error("error calling model", "responder", g.name, "session_id", req.SessionID, "error", err)
		return Reply{}, fmt.Errorf("%w: %s: %w", ErrGeneration, g.name, err)
	}

	for _, choice := range resp.Choices {
		if strings.TrimSpace(choice.Content) != "" {
			return Reply{Text: choice.Content, Responder: g.name}, nil
		}
	}

	slog.Error("model returned no text", "responder", g.name, "session_id", req.SessionID)
	return Reply{}, fmt.Errorf("%w: %s: %w", ErrGeneration, g.name, ErrNoText)
}
