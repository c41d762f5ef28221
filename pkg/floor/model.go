package floor

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
)

const (
	// DefaultGridSize is the snapping grid used by [WithGrid] when no
	// positive size is given.
	DefaultGridSize = 20.0

	// DefaultHistoryLimit bounds the number of undo steps.
	DefaultHistoryLimit = 100

	// DuplicateOffset is the displacement applied by [Model.Duplicate].
	DuplicateOffset = 20.0
)

// Option configures a [Model].
type Option func(*Model)

// WithGrid enables snapping of moved tables to a grid of the given size.
// A non-positive size selects [DefaultGridSize].
func WithGrid(size float64) Option {
	return func(m *Model) {
		if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
			size = DefaultGridSize
		}
		m.grid = size
	}
}

// WithHistoryLimit bounds the undo history. Zero disables history.
func WithHistoryLimit(n int) Option {
	return func(m *Model) {
		if n < 0 {
			n = 0
		}
		m.limit = n
	}
}

// WithIDGenerator replaces the random id generator used by [Model.Add] and
// [Model.Duplicate].
func WithIDGenerator(fn func() string) Option {
	return func(m *Model) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// Model is the ordered, editable set of tables on a floor plan.
//
// The zero value is not usable; create models with [New].
type Model struct {
	tables   []Table
	revision uint64
	grid     float64

	past   [][]Table
	future [][]Table
	limit  int

	newID func() string
}

// New creates an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		limit: DefaultHistoryLimit,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add appends a table and returns it as stored. An empty ID is replaced by a
// fresh one, an empty Name by "Table N" and an empty Kind by [DefaultKind].
//
// Add returns an INVALID_GEOMETRY error for non-positive dimensions or
// non-finite coordinates and an INVALID_INPUT error for a duplicate id. The
// model is unchanged on error.
func (m *Model) Add(t Table) (Table, error) {
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	if t.ID == "" {
		t.ID = m.freshID(m.tables)
	} else if m.index(t.ID) >= 0 {
		return Table{}, errors.New(errors.ErrCodeInvalidInput, "table %q already exists", t.ID)
	}
	if t.Name == "" {
		t.Name = fmt.Sprintf("Table %d", len(m.tables)+1)
	}
	if t.Kind == "" {
		t.Kind = DefaultKind
	}

	m.record()
	m.tables = append(m.tables, t)
	m.revision++
	return t, nil
}

// Move places the table's top-left corner at (x, y), snapped to the grid
// when one is configured. Unknown ids, locked tables and non-finite
// positions are ignored.
func (m *Model) Move(id string, x, y float64) {
	i := m.index(id)
	if i < 0 || m.tables[i].Locked {
		return
	}
	x, y = m.snap(x), m.snap(y)
	t := m.tables[i]
	if errors.ValidatePosition(x, y, t.Width, t.Height) != nil {
		return
	}
	if t.X == x && t.Y == y {
		return
	}

	m.record()
	m.tables[i].X, m.tables[i].Y = x, y
	m.revision++
}

// Resize sets a table's dimensions. Both must be strictly positive and
// finite; otherwise an INVALID_GEOMETRY error is returned and nothing
// changes. Unknown ids and locked tables are ignored.
func (m *Model) Resize(id string, width, height float64) error {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return err
	}
	i := m.index(id)
	if i < 0 || m.tables[i].Locked {
		return nil
	}
	t := m.tables[i]
	if err := errors.ValidatePosition(t.X, t.Y, width, height); err != nil {
		return err
	}
	if t.Width == width && t.Height == height {
		return nil
	}

	m.record()
	m.tables[i].Width, m.tables[i].Height = width, height
	m.revision++
	return nil
}

// Remove deletes a table. Removing an unknown id is a no-op.
func (m *Model) Remove(id string) {
	i := m.index(id)
	if i < 0 {
		return
	}
	m.record()
	m.tables = slices.Delete(m.tables, i, i+1)
	m.revision++
}

// SetReserved flags a table as reserved. The flag only affects rendering.
func (m *Model) SetReserved(id string, reserved bool) {
	m.update(id, func(t *Table) bool {
		if t.IsReserved == reserved {
			return false
		}
		t.IsReserved = reserved
		return true
	})
}

// SetLocked pins or releases a table.
func (m *Model) SetLocked(id string, locked bool) {
	m.update(id, func(t *Table) bool {
		if t.Locked == locked {
			return false
		}
		t.Locked = locked
		return true
	})
}

// Rename sets a table's display name.
func (m *Model) Rename(id, name string) {
	m.update(id, func(t *Table) bool {
		if t.Name == name {
			return false
		}
		t.Name = name
		return true
	})
}

// Duplicate appends a copy of a table offset by [DuplicateOffset] on both
// axes, with " (Copy)" appended to its name. The copy is never locked. It
// reports false when id is unknown.
func (m *Model) Duplicate(id string) (Table, bool) {
	i := m.index(id)
	if i < 0 {
		return Table{}, false
	}
	c := m.tables[i]
	c.ID = m.freshID(m.tables)
	c.Name += " (Copy)"
	c.X += DuplicateOffset
	c.Y += DuplicateOffset
	c.Locked = false
	if c.Validate() != nil {
		return Table{}, false
	}

	m.record()
	m.tables = append(m.tables, c)
	m.revision++
	return c, true
}

// Replace swaps the whole arrangement, as when a stored layout is loaded.
// Tables without an id get a fresh one. The edit history is cleared. On
// error the model is unchanged.
func (m *Model) Replace(tables []Table) error {
	if err := ValidateAll(tables); err != nil {
		return err
	}
	next := slices.Clone(tables)
	for i := range next {
		if next[i].ID == "" {
			next[i].ID = m.freshID(next)
		}
	}
	m.tables = next
	m.past, m.future = nil, nil
	m.revision++
	return nil
}

// Undo restores the arrangement before the last edit. It reports whether
// there was anything to undo.
func (m *Model) Undo() bool {
	if len(m.past) == 0 {
		return false
	}
	prev := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append(m.future, slices.Clone(m.tables))
	m.tables = prev
	m.revision++
	return true
}

// Redo reapplies the last undone edit. It reports whether there was
// anything to redo.
func (m *Model) Redo() bool {
	if len(m.future) == 0 {
		return false
	}
	next := m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	m.past = append(m.past, slices.Clone(m.tables))
	m.tables = next
	m.revision++
	return true
}

// CanUndo reports whether [Model.Undo] would change the model.
func (m *Model) CanUndo() bool { return len(m.past) > 0 }

// CanRedo reports whether [Model.Redo] would change the model.
func (m *Model) CanRedo() bool { return len(m.future) > 0 }

// Snapshot returns a copy of the tables in draw order. Later edits do not
// affect the returned slice.
func (m *Model) Snapshot() []Table {
	return slices.Clone(m.tables)
}

// Table returns the table with the given id.
func (m *Model) Table(id string) (Table, bool) {
	i := m.index(id)
	if i < 0 {
		return Table{}, false
	}
	return m.tables[i], true
}

// Len returns the number of tables.
func (m *Model) Len() int { return len(m.tables) }

// Revision returns a counter that increases with every successful mutation.
func (m *Model) Revision() uint64 { return m.revision }

// Grid returns the snapping grid size, or zero when snapping is off.
func (m *Model) Grid() float64 { return m.grid }

// HitTest returns the topmost table containing the world point p.
func (m *Model) HitTest(p geom.Point) (Table, bool) {
	for i := len(m.tables) - 1; i >= 0; i-- {
		if m.tables[i].Rect().Contains(p) {
			return m.tables[i], true
		}
	}
	return Table{}, false
}

func (m *Model) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(m.tables, func(t Table) bool { return t.ID == id })
}

func (m *Model) update(id string, fn func(*Table) bool) {
	i := m.index(id)
	if i < 0 {
		return
	}
	t := m.tables[i]
	if !fn(&t) {
		return
	}
	m.record()
	m.tables[i] = t
	m.revision++
}

// record pushes the current arrangement onto the undo stack. It must run
// before the mutation it records.
func (m *Model) record() {
	m.future = nil
	if m.limit == 0 {
		return
	}
	m.past = append(m.past, slices.Clone(m.tables))
	if over := len(m.past) - m.limit; over > 0 {
		m.past = slices.Delete(m.past, 0, over)
	}
}

func (m *Model) snap(v float64) float64 {
	if m.grid <= 0 {
		return v
	}
	return math.Round(v/m.grid) * m.grid
}

// freshID returns a generated id that no table in tables uses.
func (m *Model) freshID(tables []Table) string {
	for {
		id := m.newID()
		if !slices.ContainsFunc(tables, func(t Table) bool { return t.ID == id }) {
			return id
		}
	}
}
