package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-ezform/pkg/coerce"
	"github.com/goliatone/go-ezform/pkg/model"
)

// IsEmpty reports whether value counts as "no value": nil, a zero-length
// string, or NaN. Other values, including false and 0, are present.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return len(v) == 0
	case float64:
		return math.IsNaN(v)
	default:
		return false
	}
}

// Text renders value the way it would appear inside a text control.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// NonEmpty passes when the named field holds a value. An empty name targets
// the field being validated.
func NonEmpty(name string) model.Predicate {
	return model.PredicateFunc(func(record model.Record, field string) bool {
		return !IsEmpty(record[target(name, field)])
	})
}

// Empty passes when the named field holds no value.
func Empty(name string) model.Predicate {
	return Not(NonEmpty(name))
}

// IsTrue passes when the named field is the boolean true.
func IsTrue(name string) model.Predicate {
	return model.PredicateFunc(func(record model.Record, field string) bool {
		v, ok := record[target(name, field)].(bool)
		return ok && v
	})
}

// IsFalse passes when the named field is the boolean false.
func IsFalse(name string) model.Predicate {
	return model.PredicateFunc(func(record model.Record, field string) bool {
		v, ok := record[target(name, field)].(bool)
		return ok && !v
	})
}

// EqualFold passes when both fields render to the same text ignoring case.
func EqualFold(a, b string) model.Predicate {
	return model.PredicateFunc(func(record model.Record, field string) bool {
		return strings.EqualFold(Text(record[target(a, field)]), Text(record[target(b, field)]))
	})
}

// Truthy mirrors loose truthiness: false, 0, NaN, "" and nil are falsy.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	default:
		return !math.IsNaN(coerce.Number(v)) && coerce.Number(v) != 0
	}
}

// All passes when every predicate passes. Evaluation stops at the first
// failure.
func All(predicates ...model.Predicate) model.Predicate {
	return model.PredicateFunc(func(record model.Record, field string) bool {
		for _, p := range predicates {
			if !p.Validate(record, field) {
				return false
			}
		}
		return true
	})
}

// Any passes when at least one predicate passes.
func Any(predicates ...model.Predicate) model.Predicate {
	return model.PredicateFunc(func(record model.Record, field string) bool {
		for _, p := range predicates {
			if p.Validate(record, field) {
				return true
			}
		}
		return false
	})
}

// Not inverts a predicate.
func Not(p model.Predicate) model.Predicate {
	return model.PredicateFunc(func(record model.Record, field string) bool {
		return !p.Validate(record, field)
	})
}

func target(name, field string) string {
	if name == "" {
		return field
	}
	return name
}
