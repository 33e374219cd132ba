package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ukuvi-assistant/internal/database"
	"ukuvi-assistant/internal/storage"
)

var ErrEmptySession = errors.New("session has no conversations")

type Transcript struct {
	SessionID     string                  `json:"session_id"`
	ExportedAt    time.Time               `json:"exported_at"`
	Conversations []database.Conversation `json:"conversations"`
}

func TranscriptPrefix(sessionID string) string {
	return "transcripts/" + strings.ReplaceAll(sessionID, "/", "_") + "/"
}

// ExportTranscript writes every record of a session as one JSON object and
// returns its key.
func ExportTranscript(ctx context.Context, store ConversationStore, objects storage.ObjectStore, bucket, sessionID string) (string, error) {
	conversations, err := store.QueryBySession(ctx, sessionID, 0)
	if err != nil {
		return "", fmt.Errorf("error loading session %s: %w", sessionID, err)
	}
	if len(conversations) == 0 {
		return "", fmt.Errorf("cannot export session %s: %w", sessionID, ErrEmptySession)
	}

	transcript := Transcript{
		SessionID:     sessionID,
		ExportedAt:    time.Now().UTC(),
		Conversations: conversations,
	}

	body, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding transcript: %w", err)
	}

	if err := objects.CreateBucket(ctx, bucket); err != nil {
		return "", fmt.Errorf("error preparing bucket %s: %w", bucket, err)
	}

	key := TranscriptPrefix(sessionID) + transcript.ExportedAt.Format("20060102T150405Z") + ".json"
	if err := objects.PutObject(ctx, bucket, key, bytes.NewReader(body)); err != nil {
		return "", fmt.Errorf("error uploading transcript: %w", err)
	}

	slog.Info("exported transcript", "session_id", sessionID, "bucket", bucket, "key", key, "conversations", len(conversations))
	return key, nil
}

func LoadTranscript(ctx context.Context, objects storage.ObjectStore, bucket, key string) (Transcript, error) {
	data, err := objects.GetObject(ctx, bucket, key)
	if err != nil {
		return Transcript{}, err
	}

	var transcript Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return Transcript{}, fmt.Errorf("error decoding transcript %s: %w", key, err)
	}
	return transcript, nil
}
