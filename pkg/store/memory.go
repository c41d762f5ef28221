package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
)

// MemoryStore keeps layouts in process memory.
type MemoryStore struct {
	base
	mu   sync.RWMutex
	docs map[string]*document.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		base: newBase(opts),
		docs: make(map[string]*document.Document),
	}
}

func (s *MemoryStore) Save(ctx context.Context, ownerID, name string, tables []floor.Table) (string, error) {
	doc, err := s.prepare(ownerID, name, tables)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return "", errors.New(errors.ErrCodeStorage, "layout id %q already taken", doc.ID)
	}
	s.docs[doc.ID] = doc
	return doc.ID, nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, ownerID string) ([]document.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []document.Summary{}
	for _, doc := range s.docs {
		if doc.OwnerID == ownerID {
			out = append(out, doc.Summary())
		}
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return notFound(id)
	}
	if doc.OwnerID != ownerID {
		return forbidden(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

// sortSummaries orders newest first, breaking ties by id.
func sortSummaries(s []document.Summary) {
	slices.SortFunc(s, func(a, b document.Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
