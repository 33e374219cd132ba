package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"ukuvi-assistant/internal/database"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const DefaultSupabaseTable = database.ConversationsTable

type SupabaseConfig struct {
	URL     string
	APIKey  string
	Table   string
	Timeout time.Duration
}

// SupabaseStore talks to the PostgREST API of a hosted Supabase project.
type SupabaseStore struct {
	client *resty.Client
	table  string
}

func NewSupabaseStore(cfg SupabaseConfig) (*SupabaseStore, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase url and api key are required")
	}
	if cfg.Table == "" {
		cfg.Table = DefaultSupabaseTable
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.URL, "/")+"/rest/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.APIKey).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json")

	return &SupabaseStore{client: client, table: cfg.Table}, nil
}

type supabaseRow struct {
	ID          string          `json:"id,omitempty"`
	SessionID   string          `json:"session_id"`
	UserMessage string          `json:"user_message"`
	BotResponse string          `json:"bot_response"`
	CreatedAt   time.Time       `json:"created_at"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

func (s *SupabaseStore) Insert(ctx context.Context, conversation *database.Conversation) error {
	if conversation.ID == uuid.Nil {
		conversation.ID = uuid.New()
	}
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now().UTC()
	}

	row := supabaseRow{
		ID:          conversation.ID.String(),
		SessionID:   conversation.SessionID,
		UserMessage: conversation.UserMessage,
		BotResponse: conversation.BotResponse,
		CreatedAt:   conversation.CreatedAt,
		Metadata:    json.RawMessage(conversation.Metadata),
	}

	res, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetBody(row).
		Post("/" + s.table)
	if err != nil {
		slog.Error("unable to reach supabase", "session_id", conversation.SessionID, "error", err)
		return fmt.Errorf("%w: supabase insert: %w", ErrStore, err)
	}

	if !res.IsSuccess() {
		slog.Error("supabase returned error", "status_code", res.StatusCode(), "body", res.String())
		return fmt.Errorf("%w: supabase insert returned status %d", ErrStore, res.StatusCode())
	}

	return nil
}

func (s *SupabaseStore) QueryBySession(ctx context.Context, sessionID string, limit int) ([]database.Conversation, error) {
	order := "created_at.asc"
	if limit > 0 {
		order = "created_at.desc"
	}

	req := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam("session_id", "eq."+sessionID).
		SetQueryParam("order", order)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	res, err := req.Get("/" + s.table)
	if err != nil {
		slog.Error("unable to reach supabase", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("%w: supabase query: %w", ErrStore, err)
	}

	if !res.IsSuccess() {
		slog.Error("supabase returned error", "status_code", res.StatusCode(), "body", res.String())
		return nil, fmt.Errorf("%w: supabase query returned status %d", ErrStore, res.StatusCode())
	}

	var rows []supabaseRow
	if err := json.Unmarshal(res.Body(), &rows); err != nil {
		return nil, fmt.Errorf("%w: error parsing supabase response: %w", ErrStore, err)
	}

	conversations := make([]database.Conversation, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			slog.Warn("supabase row has a non-uuid id", "id", row.ID)
		}
		conversation := database.Conversation{
			ID:          id,
			SessionID:   row.SessionID,
			UserMessage: row.UserMessage,
			BotResponse: row.BotResponse,
			CreatedAt:   row.CreatedAt,
		}
		if len(row.Metadata) > 0 && string(row.Metadata) != "null" {
			conversation.Metadata = []byte(row.Metadata)
		}
		conversations = append(conversations, conversation)
	}

	if limit > 0 {
		slices.Reverse(conversations)
	}
	return conversations, nil
}
