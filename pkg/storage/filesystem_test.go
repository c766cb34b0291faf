package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "blob-1", strings.NewReader("hello"), 5, "text/plain"))

	rc, err := store.Get(ctx, "blob-1")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, "blob-1"))
	require.NoError(t, store.Delete(ctx, "blob-1"))

	_, err = store.Get(ctx, "blob-1")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "a/b", `a\b`} {
		err := store.Put(context.Background(), key, strings.NewReader("x"), 1, "")
		assert.Error(t, err, key)
	}
}
