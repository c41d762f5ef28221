package editor

import (
	"context"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/render"
	"github.com/matzehuels/seatmap/pkg/store"
)

// MinTableSize is the smallest width or height the editor resizes a table
// to.
const MinTableSize = 5.0

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithModel edits an existing model instead of a fresh one.
func WithModel(m *floor.Model) SessionOption {
	return func(s *Session) {
		if m != nil {
			s.model = m
		}
	}
}

// WithLayout records the id and name of the layout being edited.
func WithLayout(id, name string) SessionOption {
	return func(s *Session) { s.layoutID, s.name = id, name }
}

type dragKind int

const (
	dragNone dragKind = iota
	dragTable
	dragPan
)

type drag struct {
	kind    dragKind
	tableID string
	grab    geom.Point // pointer position relative to the table corner, world units
	last    geom.Point // last pointer position, screen pixels
	moved   bool
}

// Session is one editing session for a principal.
type Session struct {
	principal Principal
	store     store.Store
	model     *floor.Model
	binder    *Binder
	renderer  *render.Renderer

	layoutID string
	name     string
	selected string
	drag     drag

	savedRevision uint64
}

// NewSession opens a session for p backed by st. A nil store disables
// saving and loading.
func NewSession(p Principal, st store.Store, opts ...SessionOption) *Session {
	if p == nil {
		p = Guest{}
	}
	s := &Session{
		principal: p,
		store:     st,
		model:     floor.New(),
		binder:    NewBinder(),
		renderer:  render.NewRenderer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.savedRevision = s.model.Revision()
	return s
}

// =============================================================================
// Accessors
// =============================================================================

// Principal returns the principal the session acts for.
func (s *Session) Principal() Principal { return s.principal }

// Tables returns a snapshot of the tables.
func (s *Session) Tables() []floor.Table { return s.model.Snapshot() }

// Viewport returns the current viewport.
func (s *Session) Viewport() geom.Viewport { return s.binder.Viewport() }

// LayoutID returns the id of the last saved or loaded layout.
func (s *Session) LayoutID() string { return s.layoutID }

// Name returns the layout name.
func (s *Session) Name() string { return s.name }

// SetName renames the layout for the next save.
func (s *Session) SetName(name string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	s.name = name
	return nil
}

// Selected returns the id of the selected table, if any.
func (s *Session) Selected() string { return s.selected }

// Select selects the table with the given id. Unknown ids clear the
// selection.
func (s *Session) Select(id string) {
	if _, ok := s.model.Table(id); ok {
		s.selected = id
		return
	}
	s.selected = ""
}

// Dirty reports whether the model changed since the last save or load.
func (s *Session) Dirty() bool { return s.model.Revision() != s.savedRevision }

// Frame returns the draw list for the current model and viewport.
func (s *Session) Frame(ctx context.Context) []render.DrawItem {
	return s.renderer.Draw(ctx, s.model, s.binder.Viewport())
}

// =============================================================================
// Host events
// =============================================================================

// Resize handles a container size change.
func (s *Session) Resize(size geom.Size) {
	s.binder.Resize(size, s.model.Snapshot())
}

// Wheel handles one wheel step at pointer. A positive deltaY zooms out.
func (s *Session) Wheel(pointer geom.Point, deltaY float64) {
	s.binder.Zoom(pointer, deltaY)
}

// PointerDown starts a drag. Pressing on an unlocked table lets an editor
// move it; pressing anywhere else, or on any table as a guest, pans.
func (s *Session) PointerDown(p geom.Point) {
	world := s.binder.Viewport().ToWorld(p)
	t, hit := s.model.HitTest(world)
	if hit {
		s.selected = t.ID
	} else {
		s.selected = ""
	}

	if hit && s.principal.CanEdit() && !t.Locked {
		s.drag = drag{kind: dragTable, tableID: t.ID, grab: world.Sub(t.Rect().Min()), last: p}
		return
	}
	s.drag = drag{kind: dragPan, last: p}
}

// PointerMove continues a drag.
func (s *Session) PointerMove(p geom.Point) {
	switch s.drag.kind {
	case dragTable:
		corner := s.binder.Viewport().ToWorld(p).Sub(s.drag.grab)
		s.model.Move(s.drag.tableID, corner.X, corner.Y)
	case dragPan:
		if delta := p.Sub(s.drag.last); delta != (geom.Point{}) {
			s.binder.Pan(delta)
		}
	default:
		return
	}
	s.drag.last = p
	s.drag.moved = true
}

// PointerUp ends a drag.
func (s *Session) PointerUp(p geom.Point) {
	if s.drag.kind != dragNone {
		s.PointerMove(p)
	}
	s.drag = drag{}
}

// Pan moves the plan by delta screen pixels.
func (s *Session) Pan(delta geom.Point) {
	s.binder.Pan(delta)
}

// ResetView returns the viewport to auto-fit mode.
func (s *Session) ResetView() {
	s.binder.ResetView(s.model.Snapshot())
}

// =============================================================================
// Editing commands
// =============================================================================

// AddTable adds t and selects it. A table without a positive size is
// rejected with INVALID_GEOMETRY.
func (s *Session) AddTable(t floor.Table) (floor.Table, error) {
	if err := s.requireEdit(); err != nil {
		return floor.Table{}, err
	}
	added, err := s.model.Add(t)
	if err != nil {
		return floor.Table{}, err
	}
	s.selected = added.ID
	s.binder.Refit(s.model.Snapshot())
	return added, nil
}

// AddTableAt adds a table with the editor defaults centered on the screen
// point p.
func (s *Session) AddTableAt(p geom.Point) (floor.Table, error) {
	w := s.binder.Viewport().ToWorld(p)
	return s.AddTable(floor.NewTable(max(0, w.X-floor.DefaultWidth/2), max(0, w.Y-floor.DefaultHeight/2)))
}

// MoveTable places a table's corner at (x, y) in world units.
func (s *Session) MoveTable(id string, x, y float64) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	s.model.Move(id, x, y)
	return nil
}

// NudgeTable moves a table by (dx, dy) world units.
func (s *Session) NudgeTable(id string, dx, dy float64) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	t, ok := s.model.Table(id)
	if !ok {
		return nil
	}
	step := geom.Point{X: dx, Y: dy}
	if g := s.model.Grid(); g > 0 {
		step = geom.Point{X: float64(sign(dx)) * g, Y: float64(sign(dy)) * g}
	}
	s.model.Move(id, t.X+step.X, t.Y+step.Y)
	return nil
}

// ResizeTable sets a table's size.
func (s *Session) ResizeTable(id string, width, height float64) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	return s.model.Resize(id, width, height)
}

// GrowTable changes a table's size by (dw, dh), never shrinking it below
// [MinTableSize].
func (s *Session) GrowTable(id string, dw, dh float64) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	t, ok := s.model.Table(id)
	if !ok {
		return nil
	}
	return s.model.Resize(id, max(MinTableSize, t.Width+dw), max(MinTableSize, t.Height+dh))
}

// RemoveTable deletes a table.
func (s *Session) RemoveTable(id string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	s.model.Remove(id)
	if s.selected == id {
		s.selected = ""
	}
	return nil
}

// DuplicateTable copies a table and selects the copy.
func (s *Session) DuplicateTable(id string) (floor.Table, error) {
	if err := s.requireEdit(); err != nil {
		return floor.Table{}, err
	}
	c, ok := s.model.Duplicate(id)
	if !ok {
		return floor.Table{}, errors.New(errors.ErrCodeNotFound, "table %q not found", id)
	}
	s.selected = c.ID
	return c, nil
}

// SetReserved flags a table as reserved.
func (s *Session) SetReserved(id string, reserved bool) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	s.model.SetReserved(id, reserved)
	return nil
}

// ToggleReserved flips a table's reservation flag.
func (s *Session) ToggleReserved(id string) error {
	t, ok := s.model.Table(id)
	if !ok {
		return nil
	}
	return s.SetReserved(id, !t.IsReserved)
}

// ToggleLocked flips a table's lock.
func (s *Session) ToggleLocked(id string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	if t, ok := s.model.Table(id); ok {
		s.model.SetLocked(id, !t.Locked)
	}
	return nil
}

// RenameTable sets a table's display name.
func (s *Session) RenameTable(id, name string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	s.model.Rename(id, name)
	return nil
}

// Undo reverts the last edit.
func (s *Session) Undo() (bool, error) {
	if err := s.requireEdit(); err != nil {
		return false, err
	}
	return s.model.Undo(), nil
}

// Redo reapplies the last undone edit.
func (s *Session) Redo() (bool, error) {
	if err := s.requireEdit(); err != nil {
		return false, err
	}
	return s.model.Redo(), nil
}

// =============================================================================
// Persistence
// =============================================================================

// Save stores the current tables as a new layout and returns its id. The
// tables are captured before any I/O starts.
func (s *Session) Save(ctx context.Context) (string, error) {
	if err := s.requireEdit(); err != nil {
		return "", err
	}
	if s.store == nil {
		return "", errors.New(errors.ErrCodeUnsupported, "session has no layout store")
	}

	tables := s.model.Snapshot()
	revision := s.model.Revision()

	id, err := s.store.Save(ctx, s.principal.OwnerID(), s.name, tables)
	if err != nil {
		return "", err
	}
	s.layoutID = id
	s.savedRevision = revision
	return id, nil
}

// Load replaces the model with a stored layout and refits the view. On
// error the session is unchanged.
func (s *Session) Load(ctx context.Context, id string) error {
	if s.store == nil {
		return errors.New(errors.ErrCodeUnsupported, "session has no layout store")
	}
	doc, err := s.store.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.model.Replace(doc.Tables); err != nil {
		return errors.Wrap(errors.ErrCodeSchemaMismatch, err, "stored layout %q", id)
	}

	s.layoutID = doc.ID
	s.name = doc.Name
	s.selected = ""
	s.drag = drag{}
	s.savedRevision = s.model.Revision()
	s.binder.ResetView(s.model.Snapshot())
	return nil
}

func (s *Session) requireEdit() error {
	if !s.principal.CanEdit() {
		return errors.New(errors.ErrCodeForbidden, "%s may not edit layouts", s.principal)
	}
	return nil
}
