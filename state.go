package datatable

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/domonda/go-datatable/kvstore"
)

// StateOption configures a State created with NewState.
type StateOption func(*stateConfig)

type stateConfig struct {
	store  kvstore.Store
	key    string
	logger *slog.Logger
}

// WithStore makes a State load its initial value from store
// under key and write every update back to it.
// A nil store or empty key leaves the State purely in-memory.
func WithStore(store kvstore.Store, key string) StateOption {
	return func(c *stateConfig) {
		c.store = store
		c.key = key
	}
}

// WithStateLogger sets the logger used to report storage failures.
func WithStateLogger(logger *slog.Logger) StateOption {
	return func(c *stateConfig) {
		c.logger = logger
	}
}

// State is a state cell holding a value of type T,
// optionally backed by a kvstore.Store.
//
// When a store and key are configured, the initial value is
// loaded from the store at construction. A missing record keeps
// the passed default, a malformed or unreadable record is logged
// and also falls back to the default, nothing ever panics.
// Every update is written back best-effort: a failed write is
// logged and the in-memory value stays authoritative.
type State[T any] struct {
	value  T
	store  kvstore.Store
	key    string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewState creates a State holding defaultValue.
func NewState[T any](defaultValue T, opts ...StateOption) *State[T] {
	var config stateConfig
	for _, opt := range opts {
		opt(&config)
	}
	if config.logger == nil {
		config.logger = slog.Default()
	}
	s := &State[T]{
		value:  defaultValue,
		store:  config.store,
		key:    config.key,
		logger: config.logger,
	}
	s.load()
	return s
}

func (s *State[T]) persistent() bool {
	return s.store != nil && s.key != ""
}

func (s *State[T]) load() {
	if !s.persistent() {
		return
	}
	data, err := s.store.Get(s.key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("datatable: reading persisted state failed",
				"key", s.key, "error", err)
		}
		return
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("datatable: persisted state is malformed, using default",
			"key", s.key, "error", err)
		return
	}
	s.value = value
}

// persist writes the current value to the store, best-effort.
// Must be called with s.mu held.
func (s *State[T]) persist() {
	if !s.persistent() {
		return
	}
	data, err := json.Marshal(s.value)
	if err != nil {
		s.logger.Warn("datatable: marshaling state failed",
			"key", s.key, "error", err)
		return
	}
	if err := s.store.Set(s.key, data); err != nil {
		s.logger.Warn("datatable: persisting state failed",
			"key", s.key, "error", err)
	}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value.
func (s *State[T]) Set(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.persist()
}

// Update replaces the value with the result of applying fn to
// the latest value. Use Update instead of Get followed by Set
// to avoid lost updates from stale snapshots.
func (s *State[T]) Update(fn func(prev T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = fn(s.value)
	s.persist()
	return s.value
}
