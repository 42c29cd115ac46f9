// Package ezform is the top-level entry point for the declarative form engine.
// It re-exports the core types and the constructors most hosts need: a
// controller for a field schema, schema loading from YAML/JSON documents or
// an OpenAPI operation, and HTML rendering through the orchestrator.
package ezform

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-ezform/pkg/form"
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/openapi"
	"github.com/goliatone/go-ezform/pkg/orchestrator"
	"github.com/goliatone/go-ezform/pkg/render"
	"github.com/goliatone/go-ezform/pkg/renderers/html"
	"github.com/goliatone/go-ezform/pkg/schema"
)

type (
	// Field is the static description of one form field.
	Field = model.Field
	// FieldType is the closed set of value kinds.
	FieldType = model.FieldType
	// FieldState is the per-field validation metadata.
	FieldState = model.FieldState
	// Record is the flat data object bound to a form.
	Record = model.Record
	// Validator pairs a predicate with its failure message.
	Validator = model.Validator
	// Controller tracks validation state for a field schema.
	Controller = form.Controller
	// Form is a schema form with its fields and initial data.
	Form = schema.Form
	// RenderOptions carries per-request render instructions.
	RenderOptions = render.RenderOptions
)

// NewController validates fields and returns a controller in the initial
// untouched state.
func NewController(fields []Field, options ...form.Option) (*Controller, error) {
	return form.New(fields, options...)
}

// LoadSchemas walks fsys for .json/.yaml/.yml schema documents.
func LoadSchemas(fsys fs.FS, options ...schema.Option) (*schema.Store, error) {
	return schema.LoadFS(fsys, options...)
}

// ParseSchema parses a single schema document.
func ParseSchema(data []byte, source string, options ...schema.Option) (*schema.Store, error) {
	return schema.Parse(data, source, options...)
}

// ImportOpenAPI builds the form for operationID from an OpenAPI document.
func ImportOpenAPI(ctx context.Context, data []byte, operationID string, options ...openapi.Option) (Form, error) {
	doc, err := openapi.New(options...).Load(ctx, data)
	if err != nil {
		return Form{}, err
	}
	return doc.Form(operationID)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders f with record values laid over its data using the
// embedded HTML templates. When validate is set every error is surfaced, as
// after a submit attempt.
func RenderHTML(ctx context.Context, f Form, record Record, validate bool, options RenderOptions) ([]byte, error) {
	out, err := orchestrator.New().Generate(ctx, orchestrator.Request{
		Form:          f,
		Record:        record,
		Validate:      validate,
		RenderOptions: options,
	})
	if err != nil {
		return nil, fmt.Errorf("ezform: %w", err)
	}
	return out, nil
}

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
