package openapi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/schema"
	"github.com/goliatone/go-ezform/pkg/validation"
)

var (
	ErrOperationNotFound = errors.New("openapi: operation not found")
	ErrNoRequestBody     = errors.New("openapi: operation has no request body schema")
)

// formatTags maps OpenAPI string formats onto validator tags.
var formatTags = map[string]string{
	"uri":      "url",
	"url":      "url",
	"uuid":     "uuid",
	"ipv4":     "ipv4",
	"ipv6":     "ipv6",
	"hostname": "hostname",
}

// Option configures an Importer.
type Option func(*Importer)

// WithLabeler replaces Humanize as the label source for properties without
// a title.
func WithLabeler(fn func(string) string) Option {
	return func(i *Importer) {
		if fn != nil {
			i.labeler = fn
		}
	}
}

// WithExternalRefs allows documents to reference external files.
func WithExternalRefs(enabled bool) Option {
	return func(i *Importer) {
		i.externalRefs = enabled
	}
}

// Importer loads OpenAPI documents and converts request bodies into forms.
type Importer struct {
	labeler      func(string) string
	externalRefs bool
}

// New returns an Importer configured with options.
func New(options ...Option) *Importer {
	i := &Importer{labeler: Humanize}
	for _, opt := range options {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Document is a loaded OpenAPI specification.
type Document struct {
	spec       *openapi3.T
	operations map[string]*openapi3.Operation
	importer   *Importer
}

// Load parses data (JSON or YAML) and indexes its operations. Operations
// without an operationId are keyed as "<method>:<path>".
func (i *Importer) Load(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.externalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	doc := &Document{spec: spec, operations: make(map[string]*openapi3.Operation), importer: i}
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				if op == nil {
					continue
				}
				id := op.OperationID
				if id == "" {
					id = strings.ToLower(method) + ":" + path
				}
				doc.operations[id] = op
			}
		}
	}
	return doc, nil
}

// OperationIDs lists the indexed operations in lexical order.
func (d *Document) OperationIDs() []string {
	ids := make([]string, 0, len(d.operations))
	for id := range d.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Form converts the request body of operationID into a form. Fields follow
// the lexical order of the property names. The initial record holds schema
// defaults, or empty values when none are declared.
func (d *Document) Form(operationID string) (schema.Form, error) {
	op, ok := d.operations[operationID]
	if !ok {
		return schema.Form{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(op.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return schema.Form{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := schema.Form{
		ID:     operationID,
		Title:  op.Summary,
		Source: "openapi",
		Data:   make(model.Record, len(names)),
	}
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			return schema.Form{}, fmt.Errorf("openapi: operation %q property %q: unresolved schema", operationID, name)
		}
		_, isRequired := required[name]
		field, initial, err := d.importer.field(name, ref.Value, isRequired)
		if err != nil {
			return schema.Form{}, fmt.Errorf("openapi: operation %q property %q: %w", operationID, name, err)
		}
		out.Fields = append(out.Fields, field)
		out.Data[name] = initial
	}

	if err := model.ValidateFields(out.Fields); err != nil {
		return schema.Form{}, fmt.Errorf("openapi: operation %q: %w", operationID, err)
	}
	return out, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func (i *Importer) field(name string, src *openapi3.Schema, required bool) (model.Field, any, error) {
	fieldType := fieldTypeOf(src)
	label := strings.TrimSpace(src.Title)
	if label == "" {
		label = i.labeler(name)
	}
	if required {
		label += " *"
	}

	field := model.Field{
		Name:  name,
		Type:  fieldType,
		Label: model.Label{Text: label},
	}
	if desc := strings.TrimSpace(src.Description); desc != "" {
		field.Tooltip = schema.TooltipText(desc)
	}

	attrs := map[string]string{}
	if fieldType == model.FieldTypeNumber {
		attrs["type"] = "number"
	}

	if required {
		field.Validators = append(field.Validators, validation.Required("Required field"))
	}

	if len(src.Enum) > 0 {
		field.Control.Tag = model.TagSelect
		if fieldType == model.FieldTypeString {
			field.Control.Options = append(field.Control.Options, model.Option{ID: "", Text: "Select..."})
		}
		allowed := make([]any, 0, len(src.Enum))
		for _, value := range src.Enum {
			allowed = append(allowed, value)
			field.Control.Options = append(field.Control.Options, model.Option{ID: value, Text: validation.Text(value)})
		}
		field.Validators = append(field.Validators, validation.OneOf(allowed, "Select a valid option"))
	}

	switch format := strings.ToLower(src.Format); {
	case format == "email":
		attrs["type"] = "email"
		field.Validators = append(field.Validators, validation.Email("Invalid email"))
	case formatTags[format] != "":
		v, err := validation.Format(formatTags[format], "Invalid "+format)
		if err != nil {
			return model.Field{}, nil, err
		}
		field.Validators = append(field.Validators, v)
	}

	if src.Pattern != "" {
		re, err := regexp.Compile(src.Pattern)
		if err != nil {
			return model.Field{}, nil, fmt.Errorf("pattern: %w", err)
		}
		field.Validators = append(field.Validators, validation.Pattern(re, "Invalid format"))
	}
	if src.MinLength > 0 {
		n := int(src.MinLength)
		field.Validators = append(field.Validators, validation.MinLength(n, fmt.Sprintf("Must be at least %d characters", n)))
	}
	if src.MaxLength != nil {
		n := int(*src.MaxLength)
		attrs["maxlength"] = strconv.Itoa(n)
		field.Validators = append(field.Validators, validation.MaxLength(n, fmt.Sprintf("Must be at most %d characters", n)))
	}
	if src.Min != nil {
		field.Validators = append(field.Validators, validation.Min(*src.Min, src.ExclusiveMin, "Must be at least "+validation.Text(*src.Min)))
	}
	if src.Max != nil {
		field.Validators = append(field.Validators, validation.Max(*src.Max, src.ExclusiveMax, "Must be at most "+validation.Text(*src.Max)))
	}

	if len(attrs) > 0 && field.Control.Tag != model.TagSelect {
		field.Control.Attributes = attrs
	}
	return field, initialValue(fieldType, src.Default), nil
}

func fieldTypeOf(src *openapi3.Schema) model.FieldType {
	if src.Type == nil {
		return model.FieldTypeString
	}
	switch {
	case src.Type.Is(openapi3.TypeInteger), src.Type.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber
	case src.Type.Is(openapi3.TypeBoolean):
		return model.FieldTypeBoolean
	case src.Type.Is(openapi3.TypeObject), src.Type.Is(openapi3.TypeArray):
		return model.FieldTypeObject
	default:
		return model.FieldTypeString
	}
}

func initialValue(fieldType model.FieldType, def any) any {
	if def != nil {
		return def
	}
	switch fieldType {
	case model.FieldTypeString:
		return ""
	case model.FieldTypeBoolean:
		return false
	default:
		return nil
	}
}
