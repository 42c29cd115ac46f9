package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-ezform/pkg/coerce"
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/validation/expr"
)

// Rule kinds recognised by declarative schemas.
const (
	RuleRequired    = "required"
	RulePattern     = "pattern"
	RuleEmail       = "email"
	RuleFormat      = "format"
	RuleRequiredIf  = "requiredIf"
	RuleEqualsField = "equalsField"
	RuleSelected    = "selected"
	RuleNumber      = "number"
	RuleMinLength   = "minLength"
	RuleMaxLength   = "maxLength"
	RuleMin         = "min"
	RuleMax         = "max"
	RuleOneOf       = "oneOf"
	RuleExpr        = "expr"
)

var (
	formatValidatorOnce sync.Once
	formatValidator     *validator.Validate
)

func formats() *validator.Validate {
	formatValidatorOnce.Do(func() {
		formatValidator = validator.New()
	})
	return formatValidator
}

// Required fails when the field holds no value (nil, "" or NaN).
func Required(message string) model.Validator {
	return model.Validator{Name: RuleRequired, Predicate: NonEmpty(""), Message: message}
}

// Pattern fails when a non-empty value does not match re. Empty values pass so
// the message does not duplicate a required-field error.
func Pattern(re *regexp.Regexp, message string) model.Validator {
	return model.Validator{
		Name: RulePattern,
		Predicate: model.PredicateFunc(func(record model.Record, field string) bool {
			value := record[field]
			return IsEmpty(value) || re.MatchString(Text(value))
		}),
		Message: message,
	}
}

// Format checks a non-empty value against a go-playground/validator tag such
// as "email", "url" or "uuid". The tag is checked once at construction.
func Format(tag, message string) (model.Validator, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return model.Validator{}, fmt.Errorf("validation: format tag is required")
	}
	if err := probeTag(tag); err != nil {
		return model.Validator{}, err
	}
	return model.Validator{
		Name: RuleFormat,
		Predicate: model.PredicateFunc(func(record model.Record, field string) bool {
			value := record[field]
			if IsEmpty(value) {
				return true
			}
			return formats().Var(Text(value), tag) == nil
		}),
		Message: message,
	}, nil
}

func probeTag(tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validation: unknown format tag %q", tag)
		}
	}()
	_ = formats().Var("", tag)
	return nil
}

// Email fails when a non-empty value is not an email address.
func Email(message string) model.Validator {
	v, err := Format("email", message)
	if err != nil {
		panic(err)
	}
	v.Name = RuleEmail
	return v
}

// RequiredIf makes the field required while other holds a value.
func RequiredIf(other, message string) model.Validator {
	return model.Validator{
		Name:      RuleRequiredIf,
		Predicate: Any(Empty(other), NonEmpty("")),
		Message:   message,
	}
}

// EqualsField fails when both the field and other hold values that differ.
// Empty values on either side pass.
func EqualsField(other string, ignoreCase bool, message string) model.Validator {
	return model.Validator{
		Name: RuleEqualsField,
		Predicate: model.PredicateFunc(func(record model.Record, field string) bool {
			mine, theirs := record[field], record[other]
			if IsEmpty(mine) || IsEmpty(theirs) {
				return true
			}
			if ignoreCase {
				return strings.EqualFold(Text(mine), Text(theirs))
			}
			return Text(mine) == Text(theirs)
		}),
		Message: message,
	}
}

// Selected validates select controls whose placeholder option carries a
// negative id: falsy values collapse to -1 and the value must exceed it.
func Selected(message string) model.Validator {
	return model.Validator{
		Name: RuleSelected,
		Predicate: model.PredicateFunc(func(record model.Record, field string) bool {
			value := record[field]
			n := -1.0
			if Truthy(value) {
				n = coerce.Number(value)
			}
			return n > -1
		}),
		Message: message,
	}
}

// Number fails when a present value is not a finite number.
func Number(message string) model.Validator {
	return model.Validator{
		Name: RuleNumber,
		Predicate: model.PredicateFunc(func(record model.Record, field string) bool {
			value := record[field]
			if value == nil {
				return true
			}
			if s, ok := value.(string); ok && s == "" {
				return true
			}
			n := coerce.Number(value)
			return !math.IsNaN(n) && !math.IsInf(n, 0)
		}),
		Message: message,
	}
}

// MinLength fails when a non-empty value has fewer than n characters.
func MinLength(n int, message string) model.Validator {
	return model.Validator{
		Name: RuleMinLength,
		Predicate: model.PredicateFunc(func(record model.Record, field string) bool {
			value := record[field]
			return IsEmpty(value) || utf8.RuneCountInString(Text(value)) >= n
		}),
		Message: message,
	}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, message string) model.Validator {
	return model.Validator{
		Name: RuleMaxLength,
		Predicate: model.PredicateFunc(func(record model.Record, field string) bool {
			return utf8.RuneCountInString(Text(record[field])) <= n
		}),
		Message: message,
	}
}

// Min fails when a present value is below limit (or equal when exclusive).
// NaN never satisfies a bound.
func Min(limit float64, exclusive bool, message string) model.Validator {
	return model.Validator{
		Name: RuleMin,
		Predicate: bound(func(n float64) bool {
			if exclusive {
				return n > limit
			}
			return n >= limit
		}),
		Message: message,
	}
}

// Max fails when a present value is above limit (or equal when exclusive).
func Max(limit float64, exclusive bool, message string) model.Validator {
	return model.Validator{
		Name: RuleMax,
		Predicate: bound(func(n float64) bool {
			if exclusive {
				return n < limit
			}
			return n <= limit
		}),
		Message: message,
	}
}

func bound(check func(float64) bool) model.Predicate {
	return model.PredicateFunc(func(record model.Record, field string) bool {
		value := record[field]
		if value == nil {
			return true
		}
		if s, ok := value.(string); ok && s == "" {
			return true
		}
		n := coerce.Number(value)
		return !math.IsNaN(n) && check(n)
	})
}

// OneOf fails when a non-empty value is not among allowed, compared by text.
func OneOf(allowed []any, message string) model.Validator {
	set := make(map[string]struct{}, len(allowed))
	for _, item := range allowed {
		set[Text(item)] = struct{}{}
	}
	return model.Validator{
		Name: RuleOneOf,
		Predicate: model.PredicateFunc(func(record model.Record, field string) bool {
			value := record[field]
			if IsEmpty(value) {
				return true
			}
			_, ok := set[Text(value)]
			return ok
		}),
		Message: message,
	}
}

// Expr compiles an expression predicate (see package expr).
func Expr(rule, message string) (model.Validator, error) {
	compiled, err := expr.Compile(rule)
	if err != nil {
		return model.Validator{}, fmt.Errorf("validation: compile expression %q: %w", rule, err)
	}
	return model.Validator{Name: RuleExpr, Predicate: compiled, Message: message}, nil
}

// Custom wraps an arbitrary predicate function.
func Custom(name, message string, fn func(record model.Record, field string) bool) model.Validator {
	return model.Validator{Name: name, Predicate: model.PredicateFunc(fn), Message: message}
}
