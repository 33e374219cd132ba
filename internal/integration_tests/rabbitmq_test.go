package integrationtests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ukuvi-assistant/internal/chat"
	"ukuvi-assistant/internal/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRabbitMQ(t *testing.T) {
	skipIfShort(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	url := setupRabbitMQContainer(t, ctx)

	publisher, err := messaging.NewRabbitMQPublisher(url)
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	receiver, err := messaging.NewRabbitMQReceiver(url)
	require.NoError(t, err)
	t.Cleanup(receiver.Close)

	payload := messaging.NewConversationPayload(chat.NewConversation("s1", "hola", "¡Hola!", chat.Metadata{Responder: "rules", Rule: "saludo"}))
	require.NoError(t, publisher.PublishConversation(ctx, payload))

	select {
	case task := <-receiver.Tasks():
		assert.Equal(t, messaging.ConversationQueue, task.Type())

		var received messaging.ConversationPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &received))
		assert.Equal(t, payload.ID, received.ID)
		assert.Equal(t, payload.SessionID, received.SessionID)
		assert.Equal(t, payload.BotResponse, received.BotResponse)
		assert.JSONEq(t, string(payload.Metadata), string(received.Metadata))

		require.NoError(t, task.Ack())
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for task")
	}
}

func TestConversationPipeline(t *testing.T) {
	skipIfShort(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	url := setupRabbitMQContainer(t, ctx)
	store := createStore(t)

	publisher, err := messaging.NewRabbitMQPublisher(url)
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	receiver, err := messaging.NewRabbitMQReceiver(url)
	require.NoError(t, err)

	worker := messaging.NewConversationWorker(store, receiver, 5*time.Second)
	go worker.Start()
	t.Cleanup(worker.Stop)

	for _, msg := range []string{"hola", "quiero una cotización", "gracias"} {
		conversation := chat.NewConversation("pipeline", msg, "respuesta", chat.Metadata{Responder: "rules"})
		require.NoError(t, publisher.PublishConversation(ctx, messaging.NewConversationPayload(conversation)))
	}

	require.Eventually(t, func() bool {
		rows, err := store.QueryBySession(ctx, "pipeline", 0)
		return err == nil && len(rows) == 3
	}, 30*time.Second, 200*time.Millisecond)

	rows, err := store.QueryBySession(ctx, "pipeline", 0)
	require.NoError(t, err)
	assert.Equal(t, "hola", rows[0].UserMessage)
}
