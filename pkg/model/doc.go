// Package model defines the static form schema consumed by the controller and
// renderers: fields with a closed FieldType, ordered validators built from
// Predicate capabilities, dependent field lists, and opaque render hooks for
// labels, controls and tooltips. FieldState captures the per-field validation
// metadata ({IsValid, FirstValueEntered, Messages}) and Record the flat,
// host-owned data object. Schema invariants are enforced by ValidateFields,
// which reports violations as *SchemaError values wrapping one of the Err*
// sentinels so callers can branch with errors.Is.
package model
