package document

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
)

// SchemaVersion is the only document version this build reads and writes.
const SchemaVersion = 1

// DateLayout formats the default layout name (day/month/year).
const DateLayout = "02/01/2006"

// Document is a stored layout.
type Document struct {
	ID            string        `json:"id" bson:"_id"`
	SchemaVersion int           `json:"schemaVersion" bson:"schemaVersion"`
	OwnerID       string        `json:"ownerId" bson:"ownerId"`
	Name          string        `json:"name" bson:"name"`
	Tables        []floor.Table `json:"tables" bson:"tables"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Summary describes a stored layout without its tables.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"ownerId" bson:"ownerId"`
	Name      string    `json:"name" bson:"name"`
	Tables    int       `json:"tables" bson:"tableCount"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Draft is a layout that has not been saved yet.
type Draft struct {
	Name   string        `json:"name"`
	Tables []floor.Table `json:"tables"`
}

// DefaultName returns the name given to layouts saved without one.
func DefaultName(t time.Time) string {
	return t.Format(DateLayout)
}

// New builds a document for ownerID at time now. An empty name becomes
// [DefaultName]. The tables are copied. The id is left for the store.
func New(ownerID, name string, tables []floor.Table, now time.Time) (*Document, error) {
	if err := errors.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	if err := errors.ValidateLayoutName(name); err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultName(now)
	}

	d := &Document{
		SchemaVersion: SchemaVersion,
		OwnerID:       ownerID,
		Name:          name,
		Tables:        append([]floor.Table{}, tables...),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the document against the current schema. Every failure
// is a SCHEMA_MISMATCH error.
func (d *Document) Validate() error {
	if d.SchemaVersion != SchemaVersion {
		return errors.New(errors.ErrCodeSchemaMismatch, "unsupported schema version %d", d.SchemaVersion)
	}
	if d.OwnerID == "" {
		return errors.New(errors.ErrCodeSchemaMismatch, "document has no owner")
	}
	if err := floor.ValidateAll(d.Tables); err != nil {
		return errors.Wrap(errors.ErrCodeSchemaMismatch, err, "invalid tables")
	}
	return nil
}

// Summary returns the document's summary.
func (d *Document) Summary() Summary {
	return Summary{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Tables:    len(d.Tables),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := *d
	c.Tables = append([]floor.Table{}, d.Tables...)
	return &c
}

// Marshal serializes a document to pretty-printed JSON.
func Marshal(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal decodes and validates a document. Decode and validation
// failures are SCHEMA_MISMATCH errors.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, err, "decode layout")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadDraftFile reads a draft from a JSON file. Both a bare draft and a
// full document are accepted; only the name and tables are kept.
func ReadDraftFile(path string) (Draft, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Draft{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, fmt.Errorf("read %s: %w", path, err)
	}
	var dr Draft
	if err := json.Unmarshal(data, &dr); err != nil {
		return Draft{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	if err := floor.ValidateAll(dr.Tables); err != nil {
		return Draft{}, err
	}
	return dr, nil
}

// WriteFile writes a document as JSON.
func WriteFile(d *Document, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
