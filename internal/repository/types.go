package repository

import (
	"time"

	"github.com/pesio-ai/be-contracts/internal/lifecycle"
)

// ── Domain records ───────────────────────────────────────────────────────────

// FieldType is the kind of input a blueprint field collects.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeDate      FieldType = "date"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeSignature FieldType = "signature"
)

// Valid reports whether t is one of the supported field kinds.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeDate, FieldTypeCheckbox, FieldTypeSignature:
		return true
	}
	return false
}

// DisplayName is the human-readable name of the field kind.
func (t FieldType) DisplayName() string {
	switch t {
	case FieldTypeText:
		return "Text"
	case FieldTypeDate:
		return "Date"
	case FieldTypeCheckbox:
		return "Checkbox"
	case FieldTypeSignature:
		return "Signature"
	}
	return string(t)
}

// Field is one typed, labeled slot of a blueprint.
type Field struct {
	ID       string    `json:"id" yaml:"id"`
	Label    string    `json:"label" yaml:"label"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required" yaml:"required"`
}

// Blueprint is a named, ordered template of fields. Blueprints are never
// modified after creation, only deleted.
type Blueprint struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Fields    []Field   `json:"fields"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FieldByID returns the field with the given id.
func (b *Blueprint) FieldByID(id string) (Field, bool) {
	for _, f := range b.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Contract is a blueprint instance carrying concrete values and a lifecycle
// status. BlueprintName is a copy taken at creation time; the blueprint itself
// may since have been deleted.
type Contract struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	BlueprintID   string           `json:"blueprintId"`
	BlueprintName string           `json:"blueprintName"`
	FieldValues   map[string]any   `json:"fieldValues"`
	Status        lifecycle.Status `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Locked reports whether the contract is frozen against edits.
func (c *Contract) Locked() bool {
	return lifecycle.IsLocked(c.Status)
}

// Clone returns a deep copy so callers can mutate without touching the
// stored record.
func (c *Contract) Clone() *Contract {
	out := *c
	if c.FieldValues != nil {
		out.FieldValues = make(map[string]any, len(c.FieldValues))
		for k, v := range c.FieldValues {
			out.FieldValues[k] = v
		}
	}
	return &out
}
