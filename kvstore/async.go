package kvstore

import (
	"bytes"
	"log/slog"
	"sync"
)

type asyncWrite struct {
	key   string
	value []byte
}

// AsyncStore wraps another Store with a write-behind queue.
// Set enqueues the write and returns immediately, a single
// worker goroutine applies writes to the wrapped store in order.
// Get consults pending writes first so reads always observe
// the latest value handed to Set.
type AsyncStore struct {
	inner   Store
	logger  *slog.Logger
	writes  chan asyncWrite
	done    chan struct{}
	pending map[string][]byte
	mu      sync.Mutex
}

// NewAsyncStore wraps inner with a write-behind queue of the
// given buffer size. If logger is nil, slog.Default() is used
// to report failed background writes.
func NewAsyncStore(inner Store, buffer int, logger *slog.Logger) *AsyncStore {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &AsyncStore{
		inner:   inner,
		logger:  logger,
		writes:  make(chan asyncWrite, buffer),
		done:    make(chan struct{}),
		pending: make(map[string][]byte),
	}
	go s.run()
	return s
}

func (s *AsyncStore) run() {
	defer close(s.done)
	for w := range s.writes {
		if err := s.inner.Set(w.key, w.value); err != nil {
			s.logger.Warn("kvstore: background write failed",
				"key", w.key, "error", err)
		}
		s.mu.Lock()
		// Only clear the pending entry if no newer write superseded it.
		if current, ok := s.pending[w.key]; ok && bytes.Equal(current, w.value) {
			delete(s.pending, w.key)
		}
		s.mu.Unlock()
	}
}

// Get returns the most recently set value for key,
// including values whose background write is still pending.
func (s *AsyncStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	value, ok := s.pending[key]
	s.mu.Unlock()
	if ok {
		return value, nil
	}
	return s.inner.Get(key)
}

// Set records the value and enqueues the write.
// It never reports write failures, they are logged by the worker.
func (s *AsyncStore) Set(key string, value []byte) error {
	value = append([]byte(nil), value...)
	s.mu.Lock()
	s.pending[key] = value
	s.mu.Unlock()
	s.writes <- asyncWrite{key: key, value: value}
	return nil
}

// Close drains the write queue and stops the worker.
// The store must not be used after Close.
func (s *AsyncStore) Close() error {
	close(s.writes)
	<-s.done
	return nil
}
