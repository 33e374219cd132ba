package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"ukuvi-assistant/internal/chat"
)

const DefaultWriteTimeout = 10 * time.Second

// ConversationWorker drains conversation tasks into a store. Failed writes
// are logged and dropped.
type ConversationWorker struct {
	store        chat.ConversationStore
	receiver     Receiver
	writeTimeout time.Duration
}

func NewConversationWorker(store chat.ConversationStore, receiver Receiver, writeTimeout time.Duration) *ConversationWorker {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &ConversationWorker{store: store, receiver: receiver, writeTimeout: writeTimeout}
}

// Start blocks until the receiver's task channel is closed.
func (w *ConversationWorker) Start() {
	slog.Info("starting conversation worker")

	for task := range w.receiver.Tasks() {
		w.ProcessTask(task)
	}

	slog.Info("conversation worker stopped")
}

func (w *ConversationWorker) Stop() {
	slog.Info("stopping conversation worker")
	w.receiver.Close()
}

func (w *ConversationWorker) ProcessTask(task Task) {
	if task.Type() != ConversationQueue {
		slog.Error("received unknown task type", "queue", task.Type())
		if err := task.Reject(); err != nil {
			slog.Error("error rejecting message from queue", "error", err)
		}
		return
	}

	var payload ConversationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.Error("error unmarshalling conversation task", "error", err)
		if err := task.Reject(); err != nil { // Discard malformed message
			slog.Error("error rejecting message from queue", "error", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
	defer cancel()

	if err := w.store.Insert(ctx, payload.Conversation()); err != nil {
		slog.Error("error persisting conversation", "session_id", payload.SessionID, "error", err)
		if err := task.Nack(); err != nil {
			slog.Error("error reporting processing failure on message from queue", "error", err)
		}
		return
	}

	slog.Debug("persisted conversation", "session_id", payload.SessionID, "id", payload.ID)
	if err := task.Ack(); err != nil {
		slog.Error("error acknowledging message from queue", "error", err)
	}
}
