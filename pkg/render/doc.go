// Package render turns controller state into a presentation view model and
// defines the contract renderers implement.
//
// BuildFormView resolves labels, controls and wrappers with their default
// attributes, invokes any render hooks declared on the fields, and attaches
// the current FieldState so renderers can show or hide validation messages.
package render
