package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestObjectStore(t *testing.T) (*LocalObjectStore, string) {
	t.Helper()
	dir := t.TempDir()
	objectStore, err := NewLocalObjectStore(dir)
	require.NoError(t, err)
	return objectStore, dir
}

func TestLocalObjectStore_PutObject(t *testing.T) {
	objectStore, baseDir := setupTestObjectStore(t)

	content := []byte(`{"session_id":"s1"}`)
	err := objectStore.PutObject(context.Background(), "transcripts", "s1/2024.json", bytes.NewReader(content))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(baseDir, "transcripts", "s1", "2024.json"))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalObjectStore_GetObject(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)
	ctx := context.Background()

	require.NoError(t, objectStore.PutObject(ctx, "transcripts", "s1/a.json", bytes.NewReader([]byte("a"))))

	data, err := objectStore.GetObject(ctx, "transcripts", "s1/a.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)

	_, err = objectStore.GetObject(ctx, "transcripts", "s1/missing.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalObjectStore_CreateBucket(t *testing.T) {
	objectStore, baseDir := setupTestObjectStore(t)

	require.NoError(t, objectStore.CreateBucket(context.Background(), "transcripts"))
	assert.DirExists(t, filepath.Join(baseDir, "transcripts"))
}

func TestLocalObjectStore_ListAndDeleteObjects(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)
	ctx := context.Background()

	for _, key := range []string{"s1/a.json", "s1/b.json", "s2/a.json"} {
		require.NoError(t, objectStore.PutObject(ctx, "transcripts", key, bytes.NewReader([]byte(key))))
	}

	objects, err := objectStore.ListObjects(ctx, "transcripts", "s1/")
	require.NoError(t, err)
	assert.Equal(t, []Object{{Name: "s1/a.json", Size: 9}, {Name: "s1/b.json", Size: 9}}, objects)

	require.NoError(t, objectStore.DeleteObjects(ctx, "transcripts", "s1/"))

	objects, err = objectStore.ListObjects(ctx, "transcripts", "")
	require.NoError(t, err)
	assert.Equal(t, []Object{{Name: "s2/a.json", Size: 9}}, objects)
}

func TestLocalObjectStore_ListMissingBucket(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	objects, err := objectStore.ListObjects(context.Background(), "missing", "")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestLocalObjectStore_RejectsEscapingKeys(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	err := objectStore.PutObject(context.Background(), "transcripts", "../../etc/passwd", bytes.NewReader(nil))
	assert.Error(t, err)
}
