package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const ConversationsTable = "chat_conversations"

// Conversation is one user message and the assistant's reply to it.
type Conversation struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   string         `gorm:"size:255;not null;index:idx_conversations_session_created,priority:1" json:"session_id"`
	UserMessage string         `gorm:"not null" json:"user_message"`
	BotResponse string         `gorm:"not null" json:"bot_response"`
	CreatedAt   time.Time      `gorm:"not null;index:idx_conversations_session_created,priority:2" json:"created_at"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"` // {"responder": "rules", "rule": "saludo"}
}

func (Conversation) TableName() string {
	return ConversationsTable
}
