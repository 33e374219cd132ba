package migration_0

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID   string    `gorm:"size:255;not null;index"`
	UserMessage string    `gorm:"not null"`
	BotResponse string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (Conversation) TableName() string {
	return "chat_conversations"
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&Conversation{}); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
