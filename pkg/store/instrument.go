package store

import (
	"context"
	"time"

	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/floor"
	"github.com/matzehuels/seatmap/pkg/observability"
)

type instrumented struct {
	inner   Store
	backend string
}

// Instrument reports every operation on s to [observability.Store] under
// the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{inner: s, backend: backend}
}

func (s *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Save(ctx context.Context, ownerID, name string, tables []floor.Table) (string, error) {
	start := time.Now()
	id, err := s.inner.Save(ctx, ownerID, name, tables)
	s.observe(ctx, "save", start, err)
	return id, err
}

func (s *instrumented) Load(ctx context.Context, id string) (*document.Document, error) {
	start := time.Now()
	doc, err := s.inner.Load(ctx, id)
	s.observe(ctx, "load", start, err)
	return doc, err
}

func (s *instrumented) List(ctx context.Context, ownerID string) ([]document.Summary, error) {
	start := time.Now()
	out, err := s.inner.List(ctx, ownerID)
	s.observe(ctx, "list", start, err)
	return out, err
}

func (s *instrumented) Delete(ctx context.Context, ownerID, id string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, ownerID, id)
	s.observe(ctx, "delete", start, err)
	return err
}

func (s *instrumented) Close() error { return s.inner.Close() }
