package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorePut(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), ".webp", []byte("image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/"), url)
	assert.True(t, strings.HasSuffix(url, ".webp"), url)

	// The file exists on disk under the returned name.
	name := strings.TrimPrefix(url, "/media/")
	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), data)
}

func TestDiskStorePutIsContentAddressed(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)

	first, err := store.Put(context.Background(), "webp", []byte("same"))
	require.NoError(t, err)
	second, err := store.Put(context.Background(), "webp", []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := store.Put(context.Background(), "webp", []byte("different"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestNewDiskStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "media")
	store, err := NewDiskStore(dir, "/media")
	require.NoError(t, err)

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
