// Package validation checks blueprint definitions and contract values before
// they are stored. Validators accumulate every violation and never write.
package validation

import (
	"fmt"
	"strings"

	"github.com/pesio-ai/be-contracts/internal/repository"
)

// ValidateBlueprint returns every structural problem with a blueprint
// definition. An empty result means the definition is valid.
func ValidateBlueprint(name string, fields []repository.Field) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "Blueprint name is required")
	}
	if len(fields) == 0 {
		errs = append(errs, "At least one field is required")
	}

	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		n := i + 1
		if strings.TrimSpace(f.Label) == "" {
			errs = append(errs, fmt.Sprintf("Field %d: Label is required", n))
		}
		switch {
		case f.Type == "":
			errs = append(errs, fmt.Sprintf("Field %d: Type is required", n))
		case !f.Type.Valid():
			errs = append(errs, fmt.Sprintf("Field %d: Type %q is not supported", n, string(f.Type)))
		}
		if f.ID != "" {
			if seen[f.ID] {
				errs = append(errs, fmt.Sprintf("Field %d: Duplicate field id", n))
			}
			seen[f.ID] = true
		}
	}

	return errs
}

// ValidateContract checks a contract name and its values against the
// blueprint's fields. A required checkbox only needs a value: false passes,
// a missing or nil value does not.
func ValidateContract(name string, values map[string]any, fields []repository.Field) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "Contract name is required")
	}

	for _, f := range fields {
		if !f.Required {
			continue
		}
		v := values[f.ID]
		if f.Type == repository.FieldTypeCheckbox {
			if v == nil {
				errs = append(errs, fmt.Sprintf("%s is required", f.Label))
			}
			continue
		}
		if isEmpty(v) {
			errs = append(errs, fmt.Sprintf("%s is required", f.Label))
		}
	}

	return errs
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return strings.TrimSpace(fmt.Sprint(val)) == ""
	}
}
