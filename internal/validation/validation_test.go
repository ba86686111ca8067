package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pesio-ai/be-contracts/internal/repository"
)

func TestValidateBlueprint(t *testing.T) {
	tests := []struct {
		name      string
		bpName    string
		fields    []repository.Field
		wantError []string
	}{
		{
			name:   "valid",
			bpName: "NDA",
			fields: []repository.Field{
				{ID: "f1", Label: "Party", Type: repository.FieldTypeText, Required: true},
				{ID: "f2", Label: "Signed", Type: repository.FieldTypeSignature},
			},
		},
		{
			name:      "zero fields",
			bpName:    "NDA",
			wantError: []string{"At least one field is required"},
		},
		{
			name:   "missing label",
			bpName: "NDA",
			fields: []repository.Field{
				{ID: "f1", Type: repository.FieldTypeText},
			},
			wantError: []string{"Field 1: Label is required"},
		},
		{
			name:   "accumulates everything",
			bpName: "   ",
			fields: []repository.Field{
				{ID: "f1", Label: "Ok", Type: repository.FieldTypeDate},
				{ID: "f2", Label: " "},
			},
			wantError: []string{
				"Blueprint name is required",
				"Field 2: Label is required",
				"Field 2: Type is required",
			},
		},
		{
			name:   "unsupported type",
			bpName: "NDA",
			fields: []repository.Field{
				{ID: "f1", Label: "Amount", Type: "number"},
			},
			wantError: []string{`Field 1: Type "number" is not supported`},
		},
		{
			name:   "duplicate id",
			bpName: "NDA",
			fields: []repository.Field{
				{ID: "f1", Label: "A", Type: repository.FieldTypeText},
				{ID: "f1", Label: "B", Type: repository.FieldTypeText},
			},
			wantError: []string{"Field 2: Duplicate field id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateBlueprint(tt.bpName, tt.fields)
			if len(tt.wantError) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.wantError, got)
		})
	}
}

func TestValidateContract(t *testing.T) {
	fields := []repository.Field{
		{ID: "party", Label: "Party", Type: repository.FieldTypeText, Required: true},
		{ID: "notes", Label: "Notes", Type: repository.FieldTypeText, Required: false},
		{ID: "agree", Label: "Agree", Type: repository.FieldTypeCheckbox, Required: true},
	}

	t.Run("valid", func(t *testing.T) {
		got := ValidateContract("Deal", map[string]any{"party": "Acme", "agree": true}, fields)
		assert.Empty(t, got)
	})

	t.Run("required empty string", func(t *testing.T) {
		got := ValidateContract("Deal", map[string]any{"party": "", "agree": true}, fields)
		assert.Equal(t, []string{"Party is required"}, got)
	})

	t.Run("required whitespace and missing name", func(t *testing.T) {
		got := ValidateContract("", map[string]any{"party": "  ", "agree": false}, fields)
		assert.Equal(t, []string{"Contract name is required", "Party is required"}, got)
	})

	t.Run("required missing key", func(t *testing.T) {
		got := ValidateContract("Deal", nil, fields)
		assert.Equal(t, []string{"Party is required", "Agree is required"}, got)
	})

	t.Run("missing required checkbox", func(t *testing.T) {
		got := ValidateContract("Deal", map[string]any{"party": "Acme"}, fields)
		assert.Equal(t, []string{"Agree is required"}, got)

		got = ValidateContract("Deal", map[string]any{"party": "Acme", "agree": nil}, fields)
		assert.Equal(t, []string{"Agree is required"}, got)
	})

	t.Run("optional empty passes", func(t *testing.T) {
		got := ValidateContract("Deal", map[string]any{"party": "Acme", "notes": "", "agree": true}, fields)
		assert.Empty(t, got)
	})

	t.Run("unchecked required checkbox passes", func(t *testing.T) {
		got := ValidateContract("Deal", map[string]any{"party": "Acme", "agree": false}, fields)
		assert.Empty(t, got)
	})

	t.Run("non string values", func(t *testing.T) {
		got := ValidateContract("Deal", map[string]any{"party": 42, "agree": true}, fields)
		assert.Empty(t, got)
	})
}
