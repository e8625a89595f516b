package kvstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"
)

// storeRoundTrip exercises the Store contract shared by all backends.
func storeRoundTrip(t *testing.T, store Store) {
	t.Helper()

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("a", []byte("one")))
	value, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), value)

	// Overwrites replace the previous value.
	require.NoError(t, store.Set("a", []byte("two")))
	value, err = store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), value)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	storeRoundTrip(t, store)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	value := []byte("original")
	require.NoError(t, store.Set("a", value))

	value[0] = 'X'
	got, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)
}

func TestFileStore(t *testing.T) {
	file := fs.File(filepath.Join(t.TempDir(), "state.json"))

	store, err := OpenFileStore(file)
	require.NoError(t, err)
	storeRoundTrip(t, store)

	require.NoError(t, store.Set("b", []byte("second")))

	// Reopening reads everything back from the file.
	reopened, err := OpenFileStore(file)
	require.NoError(t, err)

	value, err := reopened.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), value)

	value, err = reopened.Get("b")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	file := fs.File(filepath.Join(t.TempDir(), "absent.json"))

	store, err := OpenFileStore(file)
	require.NoError(t, err)

	_, err = store.Get("anything")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreMalformedFile(t *testing.T) {
	file := fs.File(filepath.Join(t.TempDir(), "broken.json"))
	require.NoError(t, file.WriteAll([]byte("{not json")))

	_, err := OpenFileStore(file)
	require.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	storeRoundTrip(t, store)
}

func TestSQLiteStoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.sqlite")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("a", []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), value)
}

func TestAsyncStore(t *testing.T) {
	inner := NewMemoryStore()
	store := NewAsyncStore(inner, 8, nil)

	require.NoError(t, store.Set("a", []byte("one")))

	// Reads observe the value immediately, before the background
	// write necessarily reached the inner store.
	value, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), value)

	require.NoError(t, store.Close())

	// After Close the queue is drained into the inner store.
	value, err = inner.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), value)
}

func TestAsyncStoreLastWriteWins(t *testing.T) {
	inner := NewMemoryStore()
	store := NewAsyncStore(inner, 8, nil)

	require.NoError(t, store.Set("a", []byte("one")))
	require.NoError(t, store.Set("a", []byte("two")))
	require.NoError(t, store.Close())

	value, err := inner.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), value)

	// After draining, reads fall through to the inner store.
	value, err = store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), value)
}

func TestAsyncStoreMissingKey(t *testing.T) {
	store := NewAsyncStore(NewMemoryStore(), 8, nil)
	defer store.Close()

	_, err := store.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
