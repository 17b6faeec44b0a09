package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	path := "uploads/user-1/logo.png"
	require.NoError(t, store.Save(ctx, path, strings.NewReader("png-bytes"), "image/png"))

	exists, err := store.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	reader, err := store.Get(ctx, path)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, path))
	exists, err = store.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_DeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never/stored.bin"))
}

func TestLocalStorage_URLs(t *testing.T) {
	ctx := context.Background()

	t.Run("without base url", func(t *testing.T) {
		store, err := NewLocalStorage(Config{BasePath: t.TempDir()})
		require.NoError(t, err)

		url, err := store.GetURL(ctx, "uploads/a.png")
		require.NoError(t, err)
		assert.Equal(t, "/files/uploads/a.png", url)
	})

	t.Run("with base url", func(t *testing.T) {
		store, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "https://cdn.example.com"})
		require.NoError(t, err)

		url, err := store.GetURL(ctx, "uploads/a.png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/uploads/a.png", url)

		signed, err := store.GetSignedURL(ctx, "uploads/a.png", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, url, signed)
	})
}
