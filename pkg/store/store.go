// Package store persists floor-plan layouts.
//
// A [Store] saves layouts keyed by owner and name and reads them back by id.
// Every save creates a new document with a fresh id; there is no upsert, so
// saving the same arrangement twice yields two ids.
//
// # Backends
//
//   - [MemoryStore]: process-local, used by tests and `--store memory`
//   - [FileStore]: one JSON file per layout, the CLI default
//   - [MongoStore]: the `table_layouts` collection of a MongoDB database
//
// [CachedStore] decorates any backend with a read-through [cache.Cache],
// and [Instrument] reports every operation to the observability hooks.
//
// # Errors
//
// Loading an unknown id yields NOT_FOUND. Transport and database failures
// are STORAGE_FAILURE. A stored document that does not decode or validate
// is SCHEMA_MISMATCH. Deleting another owner's layout is FORBIDDEN.
//
// All implementations are safe for concurrent use.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
)

// Store is the layout persistence contract.
type Store interface {
	// Save stores a new layout for ownerID and returns its id. An empty
	// name defaults to the creation date.
	Save(ctx context.Context, ownerID, name string, tables []floor.Table) (string, error)

	// Load returns the layout with the given id.
	Load(ctx context.Context, id string) (*document.Document, error)

	// List returns the summaries of ownerID's layouts, newest first.
	List(ctx context.Context, ownerID string) ([]document.Summary, error)

	// Delete removes a layout owned by ownerID.
	Delete(ctx context.Context, ownerID, id string) error

	// Close releases backend resources.
	Close() error
}

// Option configures the stores in this package.
type Option func(*base)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator replaces the random layout id generator.
func WithIDGenerator(fn func() string) Option {
	return func(b *base) {
		if fn != nil {
			b.newID = fn
		}
	}
}

type base struct {
	now   func() time.Time
	newID func() string
}

func newBase(opts []Option) base {
	b := base{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// prepare validates the input and builds the document a backend inserts.
func (b base) prepare(ownerID, name string, tables []floor.Table) (*document.Document, error) {
	doc, err := document.New(ownerID, name, tables, b.now())
	if err != nil {
		return nil, err
	}
	doc.ID = b.newID()
	return doc, nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
}

func forbidden(id string) error {
	return errors.New(errors.ErrCodeForbidden, "layout %q belongs to another owner", id)
}

// checkID rejects ids that no backend could have issued. They are reported
// as NOT_FOUND so callers see the same outcome for junk and unknown ids.
func checkID(id string) error {
	if errors.ValidateLayoutID(id) != nil {
		return notFound(id)
	}
	return nil
}
