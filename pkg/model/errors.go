package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField      = errors.New("unknown field")
	ErrDuplicateField    = errors.New("duplicate field")
	ErrInvalidFieldName  = errors.New("field name is required")
	ErrInvalidFieldType  = errors.New("invalid field type")
	ErrInvalidDependency = errors.New("invalid dependent field")
	ErrMissingPredicate  = errors.New("validator predicate is required")
)

// SchemaError reports a programmer error in a field schema or a reference to
// a field the schema does not declare. Unwrap exposes the sentinel describing
// the failure class.
type SchemaError struct {
	Field  string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := "schema"
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// UnknownField builds the SchemaError returned when a lookup misses.
func UnknownField(name string) error {
	return &SchemaError{Field: name, Err: ErrUnknownField}
}
