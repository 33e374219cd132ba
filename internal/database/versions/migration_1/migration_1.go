package migration_1

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Adds the metadata column and replaces the session_id index with one that
// also covers created_at, which history queries sort by.
type Conversation struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionID   string         `gorm:"size:255;not null;index:idx_conversations_session_created,priority:1"`
	UserMessage string         `gorm:"not null"`
	BotResponse string         `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null;index:idx_conversations_session_created,priority:2"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
}

func (Conversation) TableName() string {
	return "chat_conversations"
}

const oldIndex = "idx_chat_conversations_session_id"

func Migration(db *gorm.DB) error {
	if err := db.Migrator().AddColumn(&Conversation{}, "metadata"); err != nil {
		return fmt.Errorf("error adding metadata column: %w", err)
	}

	if err := db.Migrator().CreateIndex(&Conversation{}, "idx_conversations_session_created"); err != nil {
		return fmt.Errorf("error creating session index: %w", err)
	}

	if db.Migrator().HasIndex(&Conversation{}, oldIndex) {
		if err := db.Migrator().DropIndex(&Conversation{}, oldIndex); err != nil {
			return fmt.Errorf("error dropping %s: %w", oldIndex, err)
		}
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropIndex(&Conversation{}, "idx_conversations_session_created"); err != nil {
		return fmt.Errorf("error dropping session index: %w", err)
	}

	if err := db.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON chat_conversations (session_id)", oldIndex)).Error; err != nil {
		return fmt.Errorf("error restoring %s: %w", oldIndex, err)
	}

	if err := db.Migrator().DropColumn(&Conversation{}, "metadata"); err != nil {
		return fmt.Errorf("error dropping metadata column: %w", err)
	}

	return nil
}
