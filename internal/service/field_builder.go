package service

import (
	"github.com/google/uuid"

	"github.com/pesio-ai/be-contracts/internal/repository"
)

// FieldBuilder accumulates blueprint fields while a blueprint is being
// authored. Each caller owns its own builder; it is not safe for concurrent
// use.
type FieldBuilder struct {
	fields []repository.Field
}

// NewFieldBuilder returns an empty builder.
func NewFieldBuilder() *FieldBuilder {
	return &FieldBuilder{}
}

// Add appends a new required field of the given type with a fresh id and an
// empty label.
func (b *FieldBuilder) Add(fieldType repository.FieldType) repository.Field {
	f := repository.Field{
		ID:       uuid.NewString(),
		Type:     fieldType,
		Required: true,
	}
	b.fields = append(b.fields, f)
	return f
}

// SetLabel changes the label of a field. It reports false when id is unknown.
func (b *FieldBuilder) SetLabel(id, label string) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.fields[i].Label = label
	return true
}

// SetRequired changes whether a field is required.
func (b *FieldBuilder) SetRequired(id string, required bool) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.fields[i].Required = required
	return true
}

// Remove drops a field, keeping the order of the rest.
func (b *FieldBuilder) Remove(id string) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.fields = append(b.fields[:i], b.fields[i+1:]...)
	return true
}

// Fields returns a copy of the fields in order.
func (b *FieldBuilder) Fields() []repository.Field {
	out := make([]repository.Field, len(b.fields))
	copy(out, b.fields)
	return out
}

// Len returns the number of fields added so far.
func (b *FieldBuilder) Len() int {
	return len(b.fields)
}

// Reset empties the builder.
func (b *FieldBuilder) Reset() {
	b.fields = nil
}

func (b *FieldBuilder) indexOf(id string) int {
	for i, f := range b.fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}
