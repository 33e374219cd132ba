package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ukuvi-assistant/internal/database"

	"gorm.io/datatypes"
)

var ErrStore = errors.New("conversation store failure")

// ConversationStore persists user/assistant exchanges.
type ConversationStore interface {
	Insert(ctx context.Context, conversation *database.Conversation) error

	// QueryBySession returns a session's records oldest first. A positive
	// limit keeps only the most recent ones.
	QueryBySession(ctx context.Context, sessionID string, limit int) ([]database.Conversation, error)
}

type Metadata struct {
	Responder string `json:"responder,omitempty"`
	Rule      string `json:"rule,omitempty"`
}

func NewConversation(sessionID, userMessage, botResponse string, metadata Metadata) *database.Conversation {
	var metadataJSON datatypes.JSON = nil
	if metadata != (Metadata{}) {
		b, err := json.Marshal(metadata)
		if err != nil {
			slog.Warn("could not marshal conversation metadata", "session_id", sessionID, "error", err)
		} else {
			metadataJSON = datatypes.JSON(b)
		}
	}

	return &database.Conversation{
		SessionID:   sessionID,
		UserMessage: userMessage,
		BotResponse: botResponse,
		Metadata:    metadataJSON,
	}
}

// NopStore drops every record. It backs deployments without persistence.
type NopStore struct{}

func (NopStore) Insert(ctx context.Context, conversation *database.Conversation) error {
	return nil
}

func (NopStore) QueryBySession(ctx context.Context, sessionID string, limit int) ([]database.Conversation, error) {
	return []database.Conversation{}, nil
}
