// Package openapi derives form schemas from OpenAPI 3 request bodies.
//
// Each top-level property of an operation's request body becomes one field.
// JSON Schema keywords map onto validators: required, pattern, minLength,
// maxLength, minimum/maximum (with exclusive bounds), enum and well-known
// formats. Nested objects and arrays are carried as opaque object fields.
package openapi
