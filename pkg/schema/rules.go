package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/validation"
)

// RuleFactory builds a validator from a rule declaration.
type RuleFactory func(spec RuleSpec) (model.Validator, error)

var (
	errMissingParam = errors.New("missing parameter")
)

// DefaultRules returns the built-in rule vocabulary keyed by kind.
func DefaultRules() map[string]RuleFactory {
	return map[string]RuleFactory{
		validation.RuleRequired: func(spec RuleSpec) (model.Validator, error) {
			return validation.Required(spec.Message), nil
		},
		validation.RulePattern: func(spec RuleSpec) (model.Validator, error) {
			if spec.Pattern == "" {
				return model.Validator{}, fmt.Errorf("pattern: %w", errMissingParam)
			}
			re, err := regexp.Compile(spec.Pattern)
			if err != nil {
				return model.Validator{}, fmt.Errorf("pattern: %w", err)
			}
			return validation.Pattern(re, spec.Message), nil
		},
		validation.RuleEmail: func(spec RuleSpec) (model.Validator, error) {
			return validation.Email(spec.Message), nil
		},
		validation.RuleFormat: func(spec RuleSpec) (model.Validator, error) {
			return validation.Format(spec.Format, spec.Message)
		},
		validation.RuleRequiredIf: func(spec RuleSpec) (model.Validator, error) {
			if spec.Field == "" {
				return model.Validator{}, fmt.Errorf("field: %w", errMissingParam)
			}
			return validation.RequiredIf(spec.Field, spec.Message), nil
		},
		validation.RuleEqualsField: func(spec RuleSpec) (model.Validator, error) {
			if spec.Field == "" {
				return model.Validator{}, fmt.Errorf("field: %w", errMissingParam)
			}
			return validation.EqualsField(spec.Field, spec.IgnoreCase, spec.Message), nil
		},
		validation.RuleSelected: func(spec RuleSpec) (model.Validator, error) {
			return validation.Selected(spec.Message), nil
		},
		validation.RuleNumber: func(spec RuleSpec) (model.Validator, error) {
			return validation.Number(spec.Message), nil
		},
		validation.RuleMinLength: func(spec RuleSpec) (model.Validator, error) {
			if spec.Length == nil {
				return model.Validator{}, fmt.Errorf("length: %w", errMissingParam)
			}
			return validation.MinLength(*spec.Length, spec.Message), nil
		},
		validation.RuleMaxLength: func(spec RuleSpec) (model.Validator, error) {
			if spec.Length == nil {
				return model.Validator{}, fmt.Errorf("length: %w", errMissingParam)
			}
			return validation.MaxLength(*spec.Length, spec.Message), nil
		},
		validation.RuleMin: func(spec RuleSpec) (model.Validator, error) {
			if spec.Value == nil {
				return model.Validator{}, fmt.Errorf("value: %w", errMissingParam)
			}
			return validation.Min(*spec.Value, spec.Exclusive, spec.Message), nil
		},
		validation.RuleMax: func(spec RuleSpec) (model.Validator, error) {
			if spec.Value == nil {
				return model.Validator{}, fmt.Errorf("value: %w", errMissingParam)
			}
			return validation.Max(*spec.Value, spec.Exclusive, spec.Message), nil
		},
		validation.RuleOneOf: func(spec RuleSpec) (model.Validator, error) {
			if len(spec.Values) == 0 {
				return model.Validator{}, fmt.Errorf("values: %w", errMissingParam)
			}
			return validation.OneOf(spec.Values, spec.Message), nil
		},
		validation.RuleExpr: func(spec RuleSpec) (model.Validator, error) {
			if strings.TrimSpace(spec.Expr) == "" {
				return model.Validator{}, fmt.Errorf("expr: %w", errMissingParam)
			}
			return validation.Expr(spec.Expr, spec.Message)
		},
	}
}
