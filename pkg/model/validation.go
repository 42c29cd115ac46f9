package model

import (
	"fmt"
	"strings"
)

// ValidateFields checks the schema invariants: names are non-empty and unique,
// types belong to the closed FieldType set, every validator has a predicate,
// and dependent fields reference other declared fields.
func ValidateFields(fields []Field) error {
	names := make(map[string]struct{}, len(fields))
	for idx, field := range fields {
		name := field.Name
		if strings.TrimSpace(name) == "" {
			return &SchemaError{Reason: fmt.Sprintf("field at index %d", idx), Err: ErrInvalidFieldName}
		}
		if _, exists := names[name]; exists {
			return &SchemaError{Field: name, Err: ErrDuplicateField}
		}
		names[name] = struct{}{}

		if !field.Type.Valid() {
			return &SchemaError{Field: name, Reason: fmt.Sprintf("type %q", field.Type), Err: ErrInvalidFieldType}
		}
		for vIdx, validator := range field.Validators {
			if validator.Predicate == nil {
				return &SchemaError{Field: name, Reason: fmt.Sprintf("validator %d (%s)", vIdx, validator.Message), Err: ErrMissingPredicate}
			}
		}
	}

	for _, field := range fields {
		for _, dep := range field.DependentFields {
			if dep == field.Name {
				return &SchemaError{Field: field.Name, Reason: "field depends on itself", Err: ErrInvalidDependency}
			}
			if _, ok := names[dep]; !ok {
				return &SchemaError{Field: field.Name, Reason: fmt.Sprintf("%q is not declared", dep), Err: ErrInvalidDependency}
			}
		}
	}
	return nil
}
