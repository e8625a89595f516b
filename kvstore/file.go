package kvstore

import (
	"encoding/json"
	"fmt"
	"sync"

	fs "github.com/ungerik/go-fs"
)

// FileStore persists all key/value pairs as a single JSON file.
// The file is read once when the store is opened and rewritten
// completely on every Set.
type FileStore struct {
	file   fs.File
	values map[string][]byte
	mu     sync.RWMutex
}

// OpenFileStore opens or creates a file backed store.
// A missing file is treated as an empty store,
// an unreadable or malformed file is an error.
func OpenFileStore(file fs.File) (*FileStore, error) {
	store := &FileStore{
		file:   file,
		values: make(map[string][]byte),
	}
	if !file.Exists() {
		return store, nil
	}
	data, err := file.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("kvstore: reading %s: %w", file, err)
	}
	if len(data) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(data, &store.values); err != nil {
		return nil, fmt.Errorf("kvstore: parsing %s: %w", file, err)
	}
	return store, nil
}

// Get returns the value stored under key.
func (f *FileStore) Get(key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	value, ok := f.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set stores value under key and rewrites the backing file.
func (f *FileStore) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = append([]byte(nil), value...)

	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("kvstore: marshaling %s: %w", f.file, err)
	}
	if err := f.file.WriteAll(data); err != nil {
		return fmt.Errorf("kvstore: writing %s: %w", f.file, err)
	}
	return nil
}
