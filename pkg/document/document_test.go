package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
)

var fixedNow = time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)

func validTables() []floor.Table {
	return []floor.Table{
		{ID: "t1", X: 50, Y: 50, Width: 100, Height: 100, Name: "Table 1", Kind: "Normal", Capacity: 10},
		{ID: "t2", X: 200, Y: 50, Width: 100, Height: 100, IsReserved: true},
	}
}

func TestNewDefaultsName(t *testing.T) {
	d, err := New("club-1", "", validTables(), fixedNow)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if d.Name != "16/10/2026" {
		t.Errorf("Name = %q, want 16/10/2026", d.Name)
	}
	if d.SchemaVersion != SchemaVersion || !d.CreatedAt.Equal(fixedNow) || !d.UpdatedAt.Equal(fixedNow) {
		t.Errorf("document = %+v", d)
	}
	if d.ID != "" {
		t.Errorf("ID = %q, want empty before save", d.ID)
	}
}

func TestNewCopiesTables(t *testing.T) {
	tables := validTables()
	d, err := New("club-1", "Main", tables, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	tables[0].X = 999
	if d.Tables[0].X != 50 {
		t.Error("document shares the caller's slice")
	}
}

func TestNewRejects(t *testing.T) {
	tests := []struct {
		name   string
		owner  string
		layout string
		tables []floor.Table
		code   errors.Code
	}{
		{"empty owner", "", "Main", nil, errors.ErrCodeInvalidInput},
		{"long name", "club-1", strings.Repeat("x", errors.MaxNameLength+1), nil, errors.ErrCodeInvalidInput},
		{"broken geometry", "club-1", "Main", []floor.Table{{Width: 0, Height: 5}}, errors.ErrCodeSchemaMismatch},
		{"duplicate ids", "club-1", "Main", []floor.Table{
			{ID: "a", Width: 1, Height: 1}, {ID: "a", Width: 1, Height: 1},
		}, errors.ErrCodeSchemaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.owner, tt.layout, tt.tables, fixedNow)
			if !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestUnmarshal(t *testing.T) {
	d, _ := New("club-1", "Main", validTables(), fixedNow)
	d.ID = "abc"
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for _, field := range []string{`"schemaVersion": 1`, `"ownerId": "club-1"`, `"isReserved": true`, `"createdAt"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("JSON missing %s", field)
		}
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.ID != "abc" || len(got.Tables) != 2 || got.Tables[1].IsReserved != true {
		t.Errorf("Unmarshal() = %+v", got)
	}
}

func TestUnmarshalSchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing version", `{"id":"a","ownerId":"o","tables":[]}`},
		{"future version", `{"id":"a","schemaVersion":2,"ownerId":"o","tables":[]}`},
		{"no owner", `{"id":"a","schemaVersion":1,"tables":[]}`},
		{"negative width", `{"id":"a","schemaVersion":1,"ownerId":"o","tables":[{"x":0,"y":0,"width":-1,"height":1}]}`},
		{"wrong type", `{"id":"a","schemaVersion":1,"ownerId":"o","tables":[{"x":"left"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); !errors.Is(err, errors.ErrCodeSchemaMismatch) {
				t.Errorf("Unmarshal() error = %v, want SCHEMA_MISMATCH", err)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	d, _ := New("club-1", "Main", validTables(), fixedNow)
	d.ID = "abc"
	s := d.Summary()
	if s.ID != "abc" || s.Name != "Main" || s.Tables != 2 || s.OwnerID != "club-1" {
		t.Errorf("Summary() = %+v", s)
	}
}

func TestDraftFiles(t *testing.T) {
	dir := t.TempDir()

	d, _ := New("club-1", "Main", validTables(), fixedNow)
	d.ID = "abc"
	docPath := filepath.Join(dir, "layout.json")
	if err := WriteFile(d, docPath); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	dr, err := ReadDraftFile(docPath)
	if err != nil {
		t.Fatalf("ReadDraftFile(document) error: %v", err)
	}
	if dr.Name != "Main" || len(dr.Tables) != 2 {
		t.Errorf("draft = %+v", dr)
	}

	bare := filepath.Join(dir, "draft.json")
	os.WriteFile(bare, []byte(`{"tables":[{"x":1,"y":2,"width":3,"height":4}]}`), 0o644)
	dr, err = ReadDraftFile(bare)
	if err != nil {
		t.Fatalf("ReadDraftFile(bare) error: %v", err)
	}
	if dr.Name != "" || dr.Tables[0].Height != 4 {
		t.Errorf("draft = %+v", dr)
	}

	broken := filepath.Join(dir, "broken.json")
	os.WriteFile(broken, []byte(`{"tables":[{"x":1,"y":2,"width":0,"height":4}]}`), 0o644)
	if _, err := ReadDraftFile(broken); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("ReadDraftFile(broken) error = %v, want INVALID_GEOMETRY", err)
	}
}
