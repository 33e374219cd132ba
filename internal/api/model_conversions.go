package api

import (
	"encoding/json"

	"ukuvi-assistant/internal/assistant"
	"ukuvi-assistant/internal/database"
	"ukuvi-assistant/pkg/api"
)

func convertConversation(c database.Conversation) api.Conversation {
	var metadata json.RawMessage
	if len(c.Metadata) > 0 {
		metadata = json.RawMessage(c.Metadata)
	}
	return api.Conversation{
		ID:          c.ID,
		SessionID:   c.SessionID,
		UserMessage: c.UserMessage,
		BotResponse: c.BotResponse,
		CreatedAt:   c.CreatedAt,
		Metadata:    metadata,
	}
}

func convertConversations(cs []database.Conversation) []api.Conversation {
	conversations := make([]api.Conversation, 0, len(cs))
	for _, c := range cs {
		conversations = append(conversations, convertConversation(c))
	}
	return conversations
}

func convertHistory(history []api.HistoryMessage) []assistant.Message {
	messages := make([]assistant.Message, 0, len(history))
	for _, msg := range history {
		messages = append(messages, assistant.Message{
			Role:    assistant.Role(msg.Role),
			Content: msg.Content,
		})
	}
	return messages
}
