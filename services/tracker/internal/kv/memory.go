package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. With a quota it mimics a
// size-capped browser storage area, counting key and value bytes.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	used   int64
	quota  int64
	closed bool
}

func NewMemoryStore(quotaBytes int64) *MemoryStore {
	return &MemoryStore{values: make(map[string]string), quota: quotaBytes}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	used := s.used
	if old, ok := s.values[key]; ok {
		used -= int64(len(key) + len(old))
	}
	used += int64(len(key) + len(value))
	if s.quota > 0 && used > s.quota {
		return ErrQuotaExceeded
	}
	s.values[key] = value
	s.used = used
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if old, ok := s.values[key]; ok {
		s.used -= int64(len(key) + len(old))
		delete(s.values, key)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
