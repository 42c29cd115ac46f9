// Package form implements the form state controller: it owns the per-field
// validation metadata for a schema and exposes the transitions hosts drive
// from UI events.
//
// Hosts own the data record. Every operation receives the current record and
// HandleChange/HandleBlur hand back a modified copy (also delivered through
// the change handler); the controller never keeps or mutates field values.
//
// Validation is deferred until a field is touched: changes to an untouched
// field are silent until the field is blurred (HandleBlur always validates) or
// the whole form is validated with ValidateAll at submit time. Once a field
// has been validated, every later change re-validates it together with its
// dependent fields.
//
// A Controller is not safe for concurrent use; hosts deliver events from a
// single goroutine in order.
package form
