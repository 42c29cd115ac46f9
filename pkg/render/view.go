package render

import (
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/validation"
)

// StateSource is the read side of a form controller.
type StateSource interface {
	Fields() []model.Field
	State(name string) (model.FieldState, bool)
}

// FormView is the presentation model of a whole form.
type FormView struct {
	Class  string      `json:"class"`
	Fields []FieldView `json:"fields"`
	Valid  bool        `json:"valid"`
	Errors []string    `json:"errors,omitempty"`
}

// FieldView is the presentation model of one field. Markup fields carry the
// output of render hooks and are emitted verbatim by renderers after
// sanitizing.
type FieldView struct {
	Name     string          `json:"name"`
	Type     model.FieldType `json:"type"`
	Checkbox bool            `json:"checkbox"`
	Label    LabelView       `json:"label"`
	Control  ControlView     `json:"control"`
	Wrapper  []Attr          `json:"wrapper"`
	Group    string          `json:"group"`
	Tooltip  string          `json:"tooltip,omitempty"`
	Valid    bool            `json:"valid"`
	Touched  bool            `json:"touched"`
	Messages []string        `json:"messages"`
}

type LabelView struct {
	Text   string `json:"text"`
	Attrs  []Attr `json:"attrs"`
	Markup string `json:"markup,omitempty"`
}

type ControlView struct {
	Tag     string       `json:"tag"`
	Value   string       `json:"value"`
	Checked bool         `json:"checked"`
	Options []OptionView `json:"options,omitempty"`
	Attrs   []Attr       `json:"attrs"`
	Markup  string       `json:"markup,omitempty"`
}

type OptionView struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// BuildFormView renders the fields of src against record in declaration
// order.
func BuildFormView(src StateSource, record model.Record) FormView {
	fields := src.Fields()
	view := FormView{Class: FormClass, Fields: make([]FieldView, 0, len(fields)), Valid: true}
	for _, field := range fields {
		state, ok := src.State(field.Name)
		if !ok {
			state = model.InitialFieldState()
		}
		fv := BuildFieldView(field, state, record)
		if !fv.Valid {
			view.Valid = false
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

// BuildFieldView renders a single field.
func BuildFieldView(field model.Field, state model.FieldState, record model.Record) FieldView {
	value := record[field.Name]
	attrs := ControlAttributes(field)
	fv := FieldView{
		Name:     field.Name,
		Type:     field.Type,
		Checkbox: field.Type == model.FieldTypeBoolean,
		Wrapper:  orderAttrs(WrapperAttributes(field)),
		Valid:    state.IsValid,
		Touched:  state.Touched(),
		Messages: append([]string{}, state.Messages...),
	}

	fv.Label = LabelView{Text: field.Label.Text, Attrs: orderAttrs(LabelAttributes(field))}
	if fv.Label.Text == "" {
		fv.Label.Text = "[" + field.Name + "]"
	}
	if field.Label.Renderer != nil && !fv.Checkbox {
		fv.Label.Markup = field.Label.Renderer.RenderLabel(field, record)
	}

	fv.Control = ControlView{Tag: controlTag(field)}
	switch {
	case fv.Checkbox:
		fv.Control.Tag = model.TagInput
		fv.Control.Checked = validation.Truthy(value)
	case fv.Control.Tag == model.TagSelect:
		current := validation.Text(value)
		for _, opt := range field.Control.Options {
			id := validation.Text(opt.ID)
			fv.Control.Options = append(fv.Control.Options, OptionView{Value: id, Text: opt.Text, Selected: id == current})
		}
		fv.Control.Value = current
	default:
		fv.Control.Value = validation.Text(value)
		if fv.Control.Tag == model.TagInput {
			attrs["value"] = fv.Control.Value
		}
	}
	if fv.Checkbox && fv.Control.Checked {
		attrs["checked"] = "checked"
	}
	fv.Control.Attrs = orderAttrs(attrs)
	if field.Control.Renderer != nil {
		fv.Control.Markup = field.Control.Renderer.RenderControl(field, attrs, record)
	}

	if field.Tooltip != nil {
		fv.Tooltip = field.Tooltip.RenderTooltip(field, record)
	}

	fv.Group = groupClass(fv)
	return fv
}

// WithErrors returns a copy of the view with server messages merged in.
// Fields receiving messages are marked invalid.
func (v FormView) WithErrors(fields map[string][]string, form []string) FormView {
	out := v
	out.Errors = MergeFormErrors(v.Errors, form...)
	out.Fields = make([]FieldView, len(v.Fields))
	for idx, fv := range v.Fields {
		if extra := normalizeMessages(fields[fv.Name]); len(extra) > 0 {
			fv.Messages = MergeFormErrors(fv.Messages, extra...)
			fv.Valid = false
			fv.Group = groupClass(fv)
			out.Valid = false
		}
		out.Fields[idx] = fv
	}
	if len(out.Errors) > 0 {
		out.Valid = false
	}
	return out
}

func groupClass(fv FieldView) string {
	class := GroupClass
	if fv.Checkbox {
		class = CheckboxClass
	}
	if !fv.Valid {
		class += " " + ErrorClass
	}
	return class
}
