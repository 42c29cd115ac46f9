package schema

import (
	"encoding/json"
	"fmt"
	"html"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-ezform/pkg/model"
)

// Option customises the loader.
type Option func(*loader)

// WithRule registers or replaces the factory for a rule kind.
func WithRule(kind string, factory RuleFactory) Option {
	return func(l *loader) {
		kind = strings.TrimSpace(kind)
		if kind == "" || factory == nil {
			return
		}
		l.rules[kind] = factory
	}
}

type loader struct {
	rules map[string]RuleFactory
}

func newLoader(options []Option) *loader {
	l := &loader{rules: DefaultRules()}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// LoadFS walks fsys and parses every JSON/YAML schema file it finds. When
// fsys is nil or holds no schema files, the returned store is empty.
func LoadFS(fsys fs.FS, options ...Option) (*Store, error) {
	l := newLoader(options)
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		return l.add(store, data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse builds a store from a single in-memory document. source names the
// document in error messages.
func Parse(data []byte, source string, options ...Option) (*Store, error) {
	l := newLoader(options)
	store := &Store{forms: make(map[string]Form)}
	if err := l.add(store, data, source); err != nil {
		return nil, err
	}
	return store, nil
}

func (l *loader) add(store *Store, data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}

	for rawID, raw := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("schema: file %s defines an empty form id", source)
		}
		if _, exists := store.forms[id]; exists {
			return fmt.Errorf("schema: duplicate form %q (file %s)", id, source)
		}

		form, err := l.buildForm(id, source, raw)
		if err != nil {
			return err
		}
		store.forms[id] = form
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func (l *loader) buildForm(id, source string, raw formFile) (Form, error) {
	fields := make([]model.Field, 0, len(raw.Fields))
	for idx, spec := range raw.Fields {
		field, err := l.buildField(spec)
		if err != nil {
			name := spec.Name
			if name == "" {
				name = fmt.Sprintf("#%d", idx)
			}
			return Form{}, fmt.Errorf("schema: form %q (file %s) field %s: %w", id, source, name, err)
		}
		fields = append(fields, field)
	}
	if err := model.ValidateFields(fields); err != nil {
		return Form{}, fmt.Errorf("schema: form %q (file %s): %w", id, source, err)
	}

	data := make(model.Record, len(raw.Data))
	for key, value := range raw.Data {
		data[key] = normaliseValue(value)
	}

	return Form{
		ID:     id,
		Title:  raw.Title,
		Source: source,
		Fields: fields,
		Data:   data,
	}, nil
}

func (l *loader) buildField(spec FieldSpec) (model.Field, error) {
	fieldType, ok := model.ParseFieldType(spec.Type)
	if !ok {
		return model.Field{}, &model.SchemaError{Field: spec.Name, Reason: fmt.Sprintf("type %q", spec.Type), Err: model.ErrInvalidFieldType}
	}

	field := model.Field{
		Name: strings.TrimSpace(spec.Name),
		Type: fieldType,
		Label: model.Label{
			Text:       spec.Label.Text,
			Placement:  strings.ToLower(strings.TrimSpace(spec.Label.Placement)),
			Attributes: cloneAttributes(spec.Label.Attributes),
		},
		Control: model.Control{
			Tag:        strings.ToLower(strings.TrimSpace(spec.Control.Tag)),
			Attributes: cloneAttributes(spec.Control.Attributes),
		},
		Wrapper:         model.Wrapper{Attributes: cloneAttributes(spec.Wrapper.Attributes)},
		DependentFields: append([]string(nil), spec.Dependents...),
	}

	switch field.Label.Placement {
	case "", model.PlacementTop, model.PlacementInline:
	default:
		return model.Field{}, fmt.Errorf("unknown label placement %q", spec.Label.Placement)
	}
	switch field.Control.Tag {
	case "", model.TagInput, model.TagSelect, model.TagTextarea:
	default:
		return model.Field{}, fmt.Errorf("unknown control tag %q", spec.Control.Tag)
	}

	for _, opt := range spec.Control.Options {
		field.Control.Options = append(field.Control.Options, model.Option{ID: normaliseValue(opt.ID), Text: opt.Text})
	}

	if text := strings.TrimSpace(spec.Tooltip); text != "" {
		field.Tooltip = TooltipText(text)
	}

	for idx, rule := range spec.Rules {
		kind := strings.TrimSpace(rule.Kind)
		factory, ok := l.rules[kind]
		if !ok {
			return model.Field{}, fmt.Errorf("rule %d: unknown kind %q", idx, rule.Kind)
		}
		validator, err := factory(rule)
		if err != nil {
			return model.Field{}, fmt.Errorf("rule %d (%s): %w", idx, kind, err)
		}
		field.Validators = append(field.Validators, validator)
	}

	return field, nil
}

// TooltipText renders a help icon whose title carries text.
func TooltipText(text string) model.TooltipRenderer {
	markup := fmt.Sprintf(`<span class="tooltip-icon" title="%s">?</span>`, html.EscapeString(text))
	return model.TooltipRendererFunc(func(model.Field, model.Record) string {
		return markup
	})
}

// normaliseValue maps decoded numbers onto float64 so records built from
// YAML match the values produced by number coercion.
func normaliseValue(value any) any {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
		return cast.ToFloat64(v)
	default:
		return value
	}
}

func cloneAttributes(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
