// Package memstore provides an in-memory storage backend. It is the
// default when no durable backend is configured and the workhorse of the
// engine's tests.
package memstore

import (
	"context"
	"sync"

	"github.com/cubeforge/collab/storage"
)

// Store keeps records in a map. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[storage.Record][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[storage.Record][]byte)}
}

func (s *Store) Read(_ context.Context, rec storage.Record) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.records[rec]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Store) Write(_ context.Context, rec storage.Record, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.records[rec] = cp
	return nil
}

func (s *Store) Delete(_ context.Context, rec storage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, rec)
	return nil
}

func (s *Store) Close() error {
	return nil
}
