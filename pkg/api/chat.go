package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type HistoryMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat. Message and SessionID are
// decoded loosely so that a non-string value is reported as missing rather
// than as a malformed body.
type ChatRequest struct {
	Message   any              `json:"message"`
	SessionID any              `json:"sessionId"`
	History   []HistoryMessage `json:"history,omitempty"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StartSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type HistoryParams struct {
	Limit int `schema:"limit"`
}

type Conversation struct {
	ID          uuid.UUID       `json:"id"`
	SessionID   string          `json:"session_id"`
	UserMessage string          `json:"user_message"`
	BotResponse string          `json:"bot_response"`
	CreatedAt   time.Time       `json:"created_at"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

type HistoryResponse struct {
	SessionID     string         `json:"sessionId"`
	Conversations []Conversation `json:"conversations"`
}

type WelcomeResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Responder string `json:"responder"`
	Rules     int    `json:"rules"`
}

type ExportResponse struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type TranscriptsResponse struct {
	SessionID string   `json:"sessionId"`
	Keys      []string `json:"keys"`
}
