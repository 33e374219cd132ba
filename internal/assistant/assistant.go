package assistant

import (
	"context"
	"errors"
)

var (
	ErrGeneration = errors.New("response generation failed")
	ErrNoText     = errors.New("no text in model response")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MaxHistoryMessages bounds how much client-supplied history is forwarded to
// a remote model. The most recent messages are kept.
const MaxHistoryMessages = 20

type Message struct {
	Role    Role
	Content string
}

type Request struct {
	SessionID string
	Message   string
	History   []Message
}

type Reply struct {
	Text string
	// Responder names the implementation that produced Text.
	Responder string
	// Rule is the matched rule name when Responder is "rules".
	Rule string
}

// Responder produces the assistant's answer to one user message.
type Responder interface {
	Name() string
	Respond(ctx context.Context, req Request) (Reply, error)
}

// conversation returns the usable history followed by the current message.
func conversation(req Request) []Message {
	history := make([]Message, 0, len(req.History)+1)
	for _, msg := range req.History {
		if msg.Content == "" {
			continue
		}
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			continue
		}
		history = append(history, msg)
	}
	if len(history) > MaxHistoryMessages {
		history = history[len(history)-MaxHistoryMessages:]
	}
	return append(history, Message{Role: RoleUser, Content: req.Message})
}
