package render

import (
	"sort"

	"github.com/goliatone/go-ezform/pkg/model"
)

// Default class names applied by BuildFormView.
const (
	FormClass        = "variable-height-rows"
	LabelClass       = "form-label"
	ControlClass     = "form-control"
	WrapperClass     = "col-sm-6 col-md-3"
	InlineClass      = "form-inline"
	GroupClass       = "form-group"
	CheckboxClass    = "checkbox"
	ErrorClass       = "has-error"
	HelpBlockClass   = "help-block"
	DefaultInputType = "text"
)

// Attr is a single rendered attribute.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ControlID is the id of the control rendered for name; labels point at it.
func ControlID(name string) string {
	return name + "_control"
}

// LabelAttributes merges the field's label attributes over the defaults.
func LabelAttributes(field model.Field) map[string]string {
	return merge(map[string]string{
		"for":   ControlID(field.Name),
		"class": LabelClass,
	}, field.Label.Attributes)
}

// ControlAttributes merges the field's control attributes over the defaults.
// Inputs get type "text" unless the field sets one; boolean fields always
// render as checkboxes.
func ControlAttributes(field model.Field) map[string]string {
	defaults := map[string]string{
		"id":    ControlID(field.Name),
		"name":  field.Name,
		"class": ControlClass,
	}
	attrs := merge(defaults, field.Control.Attributes)

	switch {
	case field.Type == model.FieldTypeBoolean:
		delete(attrs, "class")
		attrs["type"] = "checkbox"
		attrs["value"] = "true"
	case controlTag(field) == model.TagInput:
		if attrs["type"] == "" {
			attrs["type"] = DefaultInputType
		}
	default:
		delete(attrs, "type")
	}
	return attrs
}

// WrapperAttributes merges the field's wrapper attributes over the default
// grid class and appends the inline class for inline labels.
func WrapperAttributes(field model.Field) map[string]string {
	attrs := merge(map[string]string{"class": WrapperClass}, field.Wrapper.Attributes)
	if field.Label.Placement == model.PlacementInline && field.Type != model.FieldTypeBoolean {
		attrs["class"] += " " + InlineClass
	}
	return attrs
}

func controlTag(field model.Field) string {
	if field.Control.Tag == "" {
		return model.TagInput
	}
	return field.Control.Tag
}

func merge(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

var leadingAttrs = []string{"id", "name", "for", "class", "type"}

// orderAttrs lists attrs with id, name, for, class and type first and the
// rest sorted by name so output is deterministic.
func orderAttrs(attrs map[string]string) []Attr {
	out := make([]Attr, 0, len(attrs))
	seen := make(map[string]struct{}, len(leadingAttrs))
	for _, name := range leadingAttrs {
		if value, ok := attrs[name]; ok {
			out = append(out, Attr{Name: name, Value: value})
			seen[name] = struct{}{}
		}
	}
	rest := make([]string, 0, len(attrs))
	for name := range attrs {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, Attr{Name: name, Value: attrs[name]})
	}
	return out
}
