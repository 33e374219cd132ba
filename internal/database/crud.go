package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SaveConversation(ctx context.Context, txn *gorm.DB, conversation *Conversation) error {
	if conversation.ID == uuid.Nil {
		conversation.ID = uuid.New()
	}
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now().UTC()
	}

	if err := txn.WithContext(ctx).Create(conversation).Error; err != nil {
		slog.Error("error saving conversation", "session_id", conversation.SessionID, "error", err)
		return fmt.Errorf("error saving conversation: %w", err)
	}
	return nil
}

// GetConversations returns a session's records oldest first. A positive limit
// keeps only the most recent records.
func GetConversations(ctx context.Context, txn *gorm.DB, sessionID string, limit int) ([]Conversation, error) {
	var rows []Conversation

	query := txn.WithContext(ctx).Where("session_id = ?", sessionID)
	if limit > 0 {
		if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("error querying conversations: %w", err)
		}
		slices.Reverse(rows)
		return rows, nil
	}

	if err := query.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	return rows, nil
}

func CountConversations(ctx context.Context, txn *gorm.DB, sessionID string) (int64, error) {
	var count int64
	if err := txn.WithContext(ctx).Model(&Conversation{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting conversations: %w", err)
	}
	return count, nil
}

// DeleteConversations removes every record of a session older than before.
// A zero before removes all of them.
func DeleteConversations(ctx context.Context, txn *gorm.DB, sessionID string, before time.Time) (int64, error) {
	query := txn.WithContext(ctx).Where("session_id = ?", sessionID)
	if !before.IsZero() {
		query = query.Where("created_at < ?", before)
	}

	result := query.Delete(&Conversation{})
	if result.Error != nil {
		return 0, fmt.Errorf("error deleting conversations: %w", result.Error)
	}
	return result.RowsAffected, nil
}
