package model

import "strings"

// FieldType is the closed set of value kinds a field can hold. It selects the
// coercion applied to raw control values and the default control rendered for
// the field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeObject  FieldType = "object"
)

// ParseFieldType resolves a type tag case-insensitively. The empty tag maps to
// FieldTypeString; unknown tags are rejected.
func ParseFieldType(raw string) (FieldType, bool) {
	switch FieldType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FieldTypeString:
		return FieldTypeString, true
	case FieldTypeNumber:
		return FieldTypeNumber, true
	case FieldTypeBoolean:
		return FieldTypeBoolean, true
	case FieldTypeObject:
		return FieldTypeObject, true
	default:
		return "", false
	}
}

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeBoolean, FieldTypeObject:
		return true
	default:
		return false
	}
}

// Control tags understood by the default renderers.
const (
	TagInput    = "input"
	TagSelect   = "select"
	TagTextarea = "textarea"
)

// Label placements.
const (
	PlacementTop    = "top"
	PlacementInline = "inline"
)

// Record is the flat data object bound to a form, keyed by field name. Values
// are strings, float64 numbers, bools, or opaque objects. Hosts own records;
// the controller only ever returns modified copies.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r)+1)
	for key, value := range r {
		out[key] = value
	}
	return out
}

// With returns a shallow copy of the record with name set to value.
func (r Record) With(name string, value any) Record {
	out := r.Clone()
	out[name] = value
	return out
}

// Predicate decides whether the named field is valid given the full record.
// Implementations must be pure; the record is shared and must not be mutated.
type Predicate interface {
	Validate(record Record, field string) bool
}

// PredicateFunc adapts a function into a Predicate.
type PredicateFunc func(record Record, field string) bool

// Validate calls the underlying function.
func (fn PredicateFunc) Validate(record Record, field string) bool {
	return fn(record, field)
}

// Validator pairs a predicate with the message surfaced when it fails. Name is
// informational (rule kind for declarative schemas).
type Validator struct {
	Name      string
	Predicate Predicate
	Message   string
}

// LabelRenderer overrides the default label markup for a field.
type LabelRenderer interface {
	RenderLabel(field Field, record Record) string
}

// ControlRenderer overrides the default control markup for a field. attrs
// holds the merged default and field attributes.
type ControlRenderer interface {
	RenderControl(field Field, attrs map[string]string, record Record) string
}

// TooltipRenderer renders optional tooltip markup next to the label.
type TooltipRenderer interface {
	RenderTooltip(field Field, record Record) string
}

// LabelRendererFunc adapts a function into a LabelRenderer.
type LabelRendererFunc func(field Field, record Record) string

func (fn LabelRendererFunc) RenderLabel(field Field, record Record) string {
	return fn(field, record)
}

// ControlRendererFunc adapts a function into a ControlRenderer.
type ControlRendererFunc func(field Field, attrs map[string]string, record Record) string

func (fn ControlRendererFunc) RenderControl(field Field, attrs map[string]string, record Record) string {
	return fn(field, attrs, record)
}

// TooltipRendererFunc adapts a function into a TooltipRenderer.
type TooltipRendererFunc func(field Field, record Record) string

func (fn TooltipRendererFunc) RenderTooltip(field Field, record Record) string {
	return fn(field, record)
}

// Label describes the label rendered for a field. An empty Text renders the
// field name in brackets.
type Label struct {
	Text       string            `json:"text,omitempty"`
	Placement  string            `json:"placement,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Renderer   LabelRenderer     `json:"-"`
}

// Option is a single entry of a select control.
type Option struct {
	ID   any    `json:"id"`
	Text string `json:"text"`
}

// Control describes the input element for a field. Tag defaults to "input".
type Control struct {
	Tag        string            `json:"tag,omitempty"`
	Options    []Option          `json:"options,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Renderer   ControlRenderer   `json:"-"`
}

// Wrapper carries attributes for the element enclosing the label and control.
type Wrapper struct {
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Field is the static description of one form field.
type Field struct {
	Name            string          `json:"name"`
	Type            FieldType       `json:"type"`
	Label           Label           `json:"label"`
	Control         Control         `json:"control"`
	Wrapper         Wrapper         `json:"wrapper"`
	Tooltip         TooltipRenderer `json:"-"`
	Validators      []Validator     `json:"-"`
	DependentFields []string        `json:"dependentFields,omitempty"`
}

// FieldState is the validation metadata tracked per field. FirstValueEntered
// flips to true the first time the field is blurred with a value or validated,
// and gates whether later changes re-run validation.
type FieldState struct {
	IsValid           bool     `json:"isValid"`
	FirstValueEntered bool     `json:"firstValueEntered"`
	Messages          []string `json:"messages"`
}

// InitialFieldState is the state every field starts with.
func InitialFieldState() FieldState {
	return FieldState{IsValid: true, Messages: []string{}}
}

// Touched reports whether errors for the field are being surfaced.
func (s FieldState) Touched() bool {
	return s.FirstValueEntered
}

// Clone returns a copy that does not share the messages slice.
func (s FieldState) Clone() FieldState {
	out := s
	out.Messages = append([]string{}, s.Messages...)
	return out
}
