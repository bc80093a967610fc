// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package credstore persists the client's credentials between runs.

Two entries are kept under independent keys: the bearer token and the
serialized user profile. Writes of several keys are atomic so a reader never
sees a token without the user it belongs to, or the reverse.
*/
package credstore

import (
	"context"
	"sync"
)

// Keys under which the session is persisted.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is a small durable key/value map.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// SetMany writes all entries in one atomic step.
	SetMany(ctx context.Context, entries map[string]string) error

	// Delete removes the given keys in one atomic step. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	Close() error
}

// MemoryStore is a process-local [Store].
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok, nil
}

func (s *MemoryStore) SetMany(_ context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range entries {
		s.entries[key] = value
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
