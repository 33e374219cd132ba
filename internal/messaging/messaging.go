package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ukuvi-assistant/internal/database"

	"github.com/google/uuid"
)

const (
	ConversationQueue = "conversation_queue"
	RetryDelay        = 5 * time.Second
	MaxConnectRetry   = 5
	DefaultQueueSize  = 100
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

// ConversationPayload carries one exchange from the API to the persistence
// worker.
type ConversationPayload struct {
	ID          uuid.UUID       `json:"id"`
	SessionID   string          `json:"session_id"`
	UserMessage string          `json:"user_message"`
	BotResponse string          `json:"bot_response"`
	CreatedAt   time.Time       `json:"created_at"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

func NewConversationPayload(conversation *database.Conversation) ConversationPayload {
	payload := ConversationPayload{
		ID:          conversation.ID,
		SessionID:   conversation.SessionID,
		UserMessage: conversation.UserMessage,
		BotResponse: conversation.BotResponse,
		CreatedAt:   conversation.CreatedAt,
	}
	if len(conversation.Metadata) > 0 {
		payload.Metadata = json.RawMessage(conversation.Metadata)
	}
	if payload.ID == uuid.Nil {
		payload.ID = uuid.New()
	}
	if payload.CreatedAt.IsZero() {
		payload.CreatedAt = time.Now().UTC()
	}
	return payload
}

func (p ConversationPayload) Conversation() *database.Conversation {
	conversation := &database.Conversation{
		ID:          p.ID,
		SessionID:   p.SessionID,
		UserMessage: p.UserMessage,
		BotResponse: p.BotResponse,
		CreatedAt:   p.CreatedAt,
	}
	if len(p.Metadata) > 0 {
		conversation.Metadata = []byte(p.Metadata)
	}
	return conversation
}

type Publisher interface {
	PublishConversation(ctx context.Context, payload ConversationPayload) error

	Close()
}

type Receiver interface {
	Tasks() <-chan Task

	Close()
}
