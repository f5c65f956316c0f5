package cache

import (
	"context"
	"sync"

	"chatpdf/internal/model"
)

// DocumentStore maps an uploaded filename to its extracted text.
// Put overwrites any existing entry for the same filename.
type DocumentStore interface {
	Put(ctx context.Context, doc model.Document) error
	Get(ctx context.Context, filename string) (*model.Document, bool, error)
}

// MemoryDocumentStore lives for the lifetime of the process and never evicts.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]model.Document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string]model.Document)}
}

func (s *MemoryDocumentStore) Put(_ context.Context, doc model.Document) error {
	s.mu.Lock()
	s.docs[doc.Filename] = doc
	s.mu.Unlock()
	return nil
}

func (s *MemoryDocumentStore) Get(_ context.Context, filename string) (*model.Document, bool, error) {
	s.mu.RLock()
	doc, ok := s.docs[filename]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return &doc, true, nil
}
