package store

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore keeps documents in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]Document{}}
}

// Put implements [Store].
func (s *MemoryStore) Put(_ context.Context, doc *Document) (string, error) {
	prepare(doc)
	cp := *doc
	cp.Layout = bytes.Clone(doc.Layout)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[cp.ID] = cp
	return cp.ID, nil
}

// Get implements [Store].
func (s *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	doc.Layout = bytes.Clone(doc.Layout)
	return &doc, nil
}

// Delete implements [Store].
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Close does nothing.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
