package chat

import (
	"context"
	"fmt"
	"sync"

	"ukuvi-assistant/internal/database"

	"gorm.io/gorm"
)

// GormStore writes to the sqlite or postgres database opened by
// database.NewDatabase.
type GormStore struct {
	db *gorm.DB
	// SQLite only supports one writer at a time, so we need a lock
	// whenever we write to the database
	writeMu sync.Mutex
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(ctx context.Context, conversation *database.Conversation) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := database.SaveConversation(ctx, s.db, conversation); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

func (s *GormStore) QueryBySession(ctx context.Context, sessionID string, limit int) ([]database.Conversation, error) {
	rows, err := database.GetConversations(ctx, s.db, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return rows, nil
}
