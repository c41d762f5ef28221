package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/seatmap/pkg/cache"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
)

// testClock returns a clock that advances one minute per call.
func testClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func sampleTables() []floor.Table {
	return []floor.Table{
		{ID: "t1", X: 50, Y: 50, Width: 100, Height: 100, Name: "Table 1", Kind: "Normal", Capacity: 10},
		{ID: "t2", X: 300, Y: 200, Width: 100, Height: 100, IsReserved: true},
	}
}

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("save and load", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Save(ctx, "club-1", "Main floor", sampleTables())
		if err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		if id == "" {
			t.Fatal("Save() returned empty id")
		}

		doc, err := s.Load(ctx, id)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if doc.ID != id || doc.OwnerID != "club-1" || doc.Name != "Main floor" {
			t.Errorf("doc = %+v", doc)
		}
		if len(doc.Tables) != 2 || doc.Tables[0] != sampleTables()[0] || !doc.Tables[1].IsReserved {
			t.Errorf("tables = %+v", doc.Tables)
		}
		if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
			t.Error("timestamps not set")
		}
	})

	t.Run("saving twice yields two ids", func(t *testing.T) {
		s := newStore(t)
		a, err := s.Save(ctx, "club-1", "Same", sampleTables())
		if err != nil {
			t.Fatal(err)
		}
		b, err := s.Save(ctx, "club-1", "Same", sampleTables())
		if err != nil {
			t.Fatal(err)
		}
		if a == b {
			t.Errorf("second save reused id %s", a)
		}
		for _, id := range []string{a, b} {
			if _, err := s.Load(ctx, id); err != nil {
				t.Errorf("Load(%s) error: %v", id, err)
			}
		}
	})

	t.Run("default name is the creation date", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Save(ctx, "club-1", "", nil)
		if err != nil {
			t.Fatal(err)
		}
		doc, err := s.Load(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if doc.Name != doc.CreatedAt.Format("02/01/2006") {
			t.Errorf("Name = %q, CreatedAt = %v", doc.Name, doc.CreatedAt)
		}
		if len(doc.Tables) != 0 {
			t.Errorf("tables = %v, want none", doc.Tables)
		}
	})

	t.Run("load missing is not found", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"does-not-exist", "../etc/passwd"} {
			if _, err := s.Load(ctx, id); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Load(%q) error = %v, want NOT_FOUND", id, err)
			}
		}
	})

	t.Run("save rejects invalid input", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Save(ctx, "", "x", nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Save(empty owner) error = %v, want INVALID_INPUT", err)
		}
		bad := []floor.Table{{Width: -1, Height: 1}}
		if _, err := s.Save(ctx, "club-1", "x", bad); !errors.Is(err, errors.ErrCodeSchemaMismatch) {
			t.Errorf("Save(bad geometry) error = %v, want SCHEMA_MISMATCH", err)
		}
		if list, _ := s.List(ctx, "club-1"); len(list) != 0 {
			t.Errorf("rejected saves were stored: %v", list)
		}
	})

	t.Run("list is per owner and newest first", func(t *testing.T) {
		s := newStore(t)
		first, _ := s.Save(ctx, "club-1", "first", nil)
		s.Save(ctx, "club-2", "other", nil)
		second, _ := s.Save(ctx, "club-1", "second", sampleTables())

		list, err := s.List(ctx, "club-1")
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("List() = %d entries, want 2", len(list))
		}
		if list[0].ID != second || list[1].ID != first {
			t.Errorf("order = %s, %s; want %s, %s", list[0].ID, list[1].ID, second, first)
		}
		if list[0].Tables != 2 || list[0].Name != "second" {
			t.Errorf("summary = %+v", list[0])
		}

		empty, err := s.List(ctx, "nobody")
		if err != nil || empty == nil || len(empty) != 0 {
			t.Errorf("List(nobody) = %v, %v; want empty list", empty, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		id, _ := s.Save(ctx, "club-1", "x", nil)

		if err := s.Delete(ctx, "club-2", id); !errors.Is(err, errors.ErrCodeForbidden) {
			t.Errorf("Delete(other owner) error = %v, want FORBIDDEN", err)
		}
		if err := s.Delete(ctx, "club-1", id); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, err := s.Load(ctx, id); !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("Load after delete error = %v, want NOT_FOUND", err)
		}
		if err := s.Delete(ctx, "club-1", id); !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("second Delete error = %v, want NOT_FOUND", err)
		}
	})

	t.Run("loaded documents are independent", func(t *testing.T) {
		s := newStore(t)
		id, _ := s.Save(ctx, "club-1", "x", sampleTables())
		doc, _ := s.Load(ctx, id)
		doc.Tables[0].X = 999

		again, _ := s.Load(ctx, id)
		if again.Tables[0].X != 50 {
			t.Error("mutating a loaded document changed the store")
		}
	})

	t.Run("concurrent saves", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		ids := make([]string, 16)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id, err := s.Save(ctx, "club-1", fmt.Sprintf("l%d", i), sampleTables())
				if err != nil {
					t.Errorf("Save() error: %v", err)
				}
				ids[i] = id
			}(i)
		}
		wg.Wait()

		list, err := s.List(ctx, "club-1")
		if err != nil || len(list) != len(ids) {
			t.Errorf("List() = %d entries, %v; want %d", len(list), err, len(ids))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemoryStore(WithClock(testClock()))
	})
}

func TestFileStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir(), WithClock(testClock()))
		if err != nil {
			t.Fatal(err)
		}
		return s
	})
}

func TestCachedStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		c, err := cache.NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		return NewCachedStore(NewMemoryStore(WithClock(testClock())), c, nil, time.Hour)
	})
}

func TestInstrumentedStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return Instrument(NewMemoryStore(WithClock(testClock())), "memory")
	})
}
