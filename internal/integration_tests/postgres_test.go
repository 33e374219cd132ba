package integrationtests

import (
	"context"
	"testing"
	"time"

	"ukuvi-assistant/internal/chat"
	"ukuvi-assistant/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresConversationStore(t *testing.T) {
	skipIfShort(t)

	db := createDB(t)
	store := chat.NewGormStore(db)
	ctx := context.Background()

	for _, msg := range []string{"hola", "¿cómo creo un contacto?", "gracias"} {
		require.NoError(t, store.Insert(ctx, chat.NewConversation("s1", msg, "respuesta", chat.Metadata{Responder: "rules"})))
	}
	require.NoError(t, store.Insert(ctx, chat.NewConversation("s2", "hola", "respuesta", chat.Metadata{})))

	rows, err := store.QueryBySession(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "hola", rows[0].UserMessage)
	assert.Equal(t, "gracias", rows[2].UserMessage)
	assert.JSONEq(t, `{"responder": "rules"}`, string(rows[0].Metadata))

	latest, err := store.QueryBySession(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "gracias", latest[0].UserMessage)

	count, err := database.CountConversations(ctx, db, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := database.DeleteConversations(ctx, db, "s1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

func TestPostgresMigrationRollback(t *testing.T) {
	skipIfShort(t)

	db := createDB(t)
	migrator := database.GetMigrator(db)

	require.NoError(t, migrator.RollbackLast())
	assert.False(t, db.Migrator().HasColumn(&database.Conversation{}, "metadata"))

	require.NoError(t, migrator.Migrate())
	assert.True(t, db.Migrator().HasColumn(&database.Conversation{}, "metadata"))
}
