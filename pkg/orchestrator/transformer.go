package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/schema"
)

// Transformer mutates a form before its controller is built. Implementations
// can relabel fields, adjust attributes, or seed data.
type Transformer interface {
	Transform(ctx context.Context, form *schema.Form) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *schema.Form) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *schema.Form) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON
// document:
//
//	{
//	  "title": "Contact us",
//	  "data": {"phoneType": 2},
//	  "fields": {
//	    "phone": {"label": "Mobile", "placeholder": "555-000-0000", "attributes": {"autocomplete": "tel"}}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title  string                    `json:"title"`
	Data   map[string]any            `json:"data"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label             string            `json:"label"`
	Placement         string            `json:"placement"`
	Placeholder       string            `json:"placeholder"`
	Attributes        map[string]string `json:"attributes"`
	WrapperAttributes map[string]string `json:"wrapperAttributes"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied form. Patches
// naming undeclared fields are rejected.
func (t *JSONPresetTransformer) Transform(ctx context.Context, form *schema.Form) error {
	if form == nil {
		return errors.New("json preset transformer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		form.Title = t.document.Title
	}
	if len(t.document.Data) > 0 {
		data := form.Data.Clone()
		for key, value := range t.document.Data {
			data[key] = value
		}
		form.Data = data
	}

	for name, patch := range t.document.Fields {
		idx := fieldIndex(form.Fields, name)
		if idx < 0 {
			return fmt.Errorf("json preset transformer: %w", model.UnknownField(name))
		}
		form.Fields[idx] = applyFieldPatch(form.Fields[idx], patch)
	}
	return nil
}

func applyFieldPatch(field model.Field, patch jsonFieldPatch) model.Field {
	if patch.Label != "" {
		field.Label.Text = patch.Label
	}
	if patch.Placement != "" {
		field.Label.Placement = patch.Placement
	}
	if patch.Placeholder != "" {
		field.Control.Attributes = mergeStringMap(field.Control.Attributes, map[string]string{"placeholder": patch.Placeholder})
	}
	if len(patch.Attributes) > 0 {
		field.Control.Attributes = mergeStringMap(field.Control.Attributes, patch.Attributes)
	}
	if len(patch.WrapperAttributes) > 0 {
		field.Wrapper.Attributes = mergeStringMap(field.Wrapper.Attributes, patch.WrapperAttributes)
	}
	return field
}

func fieldIndex(fields []model.Field, name string) int {
	for idx, field := range fields {
		if field.Name == name {
			return idx
		}
	}
	return -1
}

// mergeStringMap returns a new map so patched fields never share attribute
// maps with the source form.
func mergeStringMap(dst, src map[string]string) map[string]string {
	out := make(map[string]string, len(dst)+len(src))
	for key, value := range dst {
		out[key] = value
	}
	for key, value := range src {
		out[key] = value
	}
	return out
}
