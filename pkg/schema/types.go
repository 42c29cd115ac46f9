package schema

import (
	"sort"

	"github.com/goliatone/go-ezform/pkg/model"
)

// Store keeps the forms parsed from schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	forms map[string]Form
}

// Form is a fully built form definition.
type Form struct {
	ID     string
	Title  string
	Source string
	Fields []model.Field
	Data   model.Record
}

// Form returns the form registered under id. The returned field slice and
// data record are copies.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[id]
	if !ok {
		return Form{}, false
	}
	form.Fields = append([]model.Field(nil), form.Fields...)
	form.Data = form.Data.Clone()
	return form, true
}

// IDs lists the form ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title  string         `json:"title" yaml:"title"`
	Fields []FieldSpec    `json:"fields" yaml:"fields"`
	Data   map[string]any `json:"data" yaml:"data"`
}

// FieldSpec is the declarative form of a model.Field.
type FieldSpec struct {
	Name       string      `json:"name" yaml:"name"`
	Type       string      `json:"type" yaml:"type"`
	Label      LabelSpec   `json:"label" yaml:"label"`
	Control    ControlSpec `json:"control" yaml:"control"`
	Wrapper    WrapperSpec `json:"wrapper" yaml:"wrapper"`
	Tooltip    string      `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Rules      []RuleSpec  `json:"rules" yaml:"rules"`
	Dependents []string    `json:"dependents" yaml:"dependents"`
}

type LabelSpec struct {
	Text       string            `json:"text" yaml:"text"`
	Placement  string            `json:"placement" yaml:"placement"`
	Attributes map[string]string `json:"attributes" yaml:"attributes"`
}

type ControlSpec struct {
	Tag        string            `json:"tag" yaml:"tag"`
	Options    []OptionSpec      `json:"options" yaml:"options"`
	Attributes map[string]string `json:"attributes" yaml:"attributes"`
}

type OptionSpec struct {
	ID   any    `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

type WrapperSpec struct {
	Attributes map[string]string `json:"attributes" yaml:"attributes"`
}

// RuleSpec declares one validator. Which parameters apply depends on Kind.
type RuleSpec struct {
	Kind       string   `json:"kind" yaml:"kind"`
	Message    string   `json:"message" yaml:"message"`
	Pattern    string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format     string   `json:"format,omitempty" yaml:"format,omitempty"`
	Field      string   `json:"field,omitempty" yaml:"field,omitempty"`
	IgnoreCase bool     `json:"ignoreCase,omitempty" yaml:"ignoreCase,omitempty"`
	Length     *int     `json:"length,omitempty" yaml:"length,omitempty"`
	Value      *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Exclusive  bool     `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
	Values     []any    `json:"values,omitempty" yaml:"values,omitempty"`
	Expr       string   `json:"expr,omitempty" yaml:"expr,omitempty"`
}
