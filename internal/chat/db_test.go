package chat

import (
	"context"
	"sync"
	"testing"

	"ukuvi-assistant/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func createDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.GetMigrator(db).Migrate())

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func TestGormStore(t *testing.T) {
	store := NewGormStore(createDB(t))
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, NewConversation("s1", "hola", "¡Hola!", Metadata{Responder: "rules", Rule: "saludo"})))
	require.NoError(t, store.Insert(ctx, NewConversation("s1", "gracias", "¡De nada!", Metadata{})))

	rows, err := store.QueryBySession(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "hola", rows[0].UserMessage)
	assert.JSONEq(t, `{"responder":"rules","rule":"saludo"}`, string(rows[0].Metadata))
	assert.Nil(t, rows[1].Metadata)

	latest, err := store.QueryBySession(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "gracias", latest[0].UserMessage)
}

func TestGormStoreConcurrentInserts(t *testing.T) {
	store := NewGormStore(createDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Insert(ctx, NewConversation("s1", "hola", "¡Hola!", Metadata{})))
		}()
	}
	wg.Wait()

	rows, err := store.QueryBySession(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, rows, 20)
}

func TestGormStoreWrapsErrors(t *testing.T) {
	db := createDB(t)
	store := NewGormStore(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = store.Insert(context.Background(), NewConversation("s1", "hola", "¡Hola!", Metadata{}))
	assert.ErrorIs(t, err, ErrStore)

	_, err = store.QueryBySession(context.Background(), "s1", 0)
	assert.ErrorIs(t, err, ErrStore)
}

func TestNopStore(t *testing.T) {
	var store ConversationStore = NopStore{}
	assert.NoError(t, store.Insert(context.Background(), NewConversation("s1", "a", "b", Metadata{})))

	rows, err := store.QueryBySession(context.Background(), "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
