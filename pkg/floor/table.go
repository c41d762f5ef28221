package floor

import (
	"fmt"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
)

// Defaults applied to tables created from the editor.
const (
	DefaultWidth    = 100.0
	DefaultHeight   = 100.0
	DefaultCapacity = 10
	DefaultKind     = "Normal"
)

// Table is one placed table in world coordinates. X and Y locate the
// top-left corner.
type Table struct {
	ID         string  `json:"id,omitempty" bson:"id,omitempty"`
	X          float64 `json:"x" bson:"x"`
	Y          float64 `json:"y" bson:"y"`
	Width      float64 `json:"width" bson:"width"`
	Height     float64 `json:"height" bson:"height"`
	IsReserved bool    `json:"isReserved,omitempty" bson:"isReserved,omitempty"`
	Name       string  `json:"name,omitempty" bson:"name,omitempty"`
	Kind       string  `json:"kind,omitempty" bson:"kind,omitempty"`
	Capacity   int     `json:"capacity,omitempty" bson:"capacity,omitempty"`
	Locked     bool    `json:"locked,omitempty" bson:"locked,omitempty"`
}

// NewTable returns a table with the editor defaults at (x, y).
func NewTable(x, y float64) Table {
	return Table{
		X:        x,
		Y:        y,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Kind:     DefaultKind,
		Capacity: DefaultCapacity,
	}
}

// Rect returns the table's bounds.
func (t Table) Rect() geom.Rect {
	return geom.Rect{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
}

// Validate checks the geometry invariants: strictly positive, finite
// dimensions and finite corners. Capacity must not be negative.
func (t Table) Validate() error {
	if err := errors.ValidateDimensions(t.Width, t.Height); err != nil {
		return err
	}
	if err := errors.ValidatePosition(t.X, t.Y, t.Width, t.Height); err != nil {
		return err
	}
	if t.Capacity < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "capacity must not be negative, got %d", t.Capacity)
	}
	return nil
}

func (t Table) String() string {
	label := t.Name
	if label == "" {
		label = t.ID
	}
	return fmt.Sprintf("%s [%gx%g @ %g,%g]", label, t.Width, t.Height, t.X, t.Y)
}

// Rects returns the bounds of every table, in order.
func Rects(tables []Table) []geom.Rect {
	rects := make([]geom.Rect, len(tables))
	for i, t := range tables {
		rects[i] = t.Rect()
	}
	return rects
}

// ValidateAll checks every table and the uniqueness of non-empty ids.
func ValidateAll(tables []Table) error {
	seen := make(map[string]bool, len(tables))
	for i, t := range tables {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("table %d: %w", i, err)
		}
		if t.ID == "" {
			continue
		}
		if seen[t.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate table id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
