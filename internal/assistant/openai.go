package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const OpenAIResponderName = "openai"

type OpenAIConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
	// MaxRetries of a negative value keeps the client default.
	MaxRetries int
}

// OpenAIGenerator answers with an OpenAI chat completion.
type OpenAIGenerator struct {
	client    openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}

	return &OpenAIGenerator{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

func (o *OpenAIGenerator) Name() string {
	return OpenAIResponderName
}

func (o *OpenAIGenerator) Respond(ctx context.Context, req Request) (Reply, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	messages := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(SystemPrompt)}
	for _, msg := range conversation(req) {
		if msg.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(msg.Content))
		} else {
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: messages,
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}

	res, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("openai chat completion failed", "session_id", req.SessionID, "error", err)
		return Reply{}, fmt.Errorf("%w: openai: %w", ErrGeneration, err)
	}

	if len(res.Choices) == 0 || strings.TrimSpace(res.Choices[0].Message.Content) == "" {
		slog.Error("openai returned no text", "session_id", req.SessionID, "model", o.model)
		return Reply{}, fmt.Errorf("%w: openai: %w", ErrGeneration, ErrNoText)
	}

	return Reply{Text: res.Choices[0].Message.Content, Responder: OpenAIResponderName}, nil
}
