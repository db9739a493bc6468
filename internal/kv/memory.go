package kv

import "sync"

// MemoryStore keeps values in process memory. Nothing survives Close.
type MemoryStore struct {
	Notifier
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(v), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	s.values[key] = clone(value)
	s.mu.Unlock()

	s.Publish(key, value)
	return nil
}

func (s *MemoryStore) Init() error { return nil }

func (s *MemoryStore) Load() error { return nil }

func (s *MemoryStore) Path() string { return ":memory:" }

func (s *MemoryStore) Close() error {
	return nil
}
