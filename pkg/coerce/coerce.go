// Package coerce converts raw control values into the typed values stored in
// a form record.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-ezform/pkg/model"
)

var truthyTokens = map[string]struct{}{
	"true": {},
	"y":    {},
	"yes":  {},
	"1":    {},
	"on":   {},
}

// Value coerces raw according to the field type. Number coercion never fails:
// non-numeric input yields NaN so validators can reject it explicitly.
func Value(fieldType model.FieldType, raw any) any {
	switch fieldType {
	case model.FieldTypeNumber:
		return Number(raw)
	case model.FieldTypeBoolean:
		return Boolean(raw)
	case model.FieldTypeString, model.FieldTypeObject:
		return raw
	default:
		return raw
	}
}

// Boolean is a tolerant parser: bools pass through, and any other value is
// true only when its trimmed, lower-cased text is one of true, y, yes, 1, on.
func Boolean(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return isTruthyToken(v)
	default:
		return isTruthyToken(fmt.Sprint(v))
	}
}

func isTruthyToken(value string) bool {
	_, ok := truthyTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// Number converts raw into a float64 the way a browser coerces control text:
// blank text is 0, booleans are 0/1, and anything unparsable is NaN.
func Number(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		return parseNumber(v)
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return math.NaN()
		}
		return f
	}
}

func parseNumber(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	switch trimmed {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(trimmed, "_") {
		return math.NaN()
	}

	if len(lower) > 2 && lower[0] == '0' && (lower[1] == 'x' || lower[1] == 'o' || lower[1] == 'b') {
		n, err := strconv.ParseUint(lower, 0, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// IsNaN reports whether value is a NaN float, the marker for a failed number
// coercion.
func IsNaN(value any) bool {
	f, ok := value.(float64)
	return ok && math.IsNaN(f)
}

// JSONSafe returns a copy of record with NaN numbers replaced by nil so the
// record can be encoded as JSON.
func JSONSafe(record model.Record) model.Record {
	out := make(model.Record, len(record))
	for key, value := range record {
		if IsNaN(value) {
			out[key] = nil
			continue
		}
		out[key] = value
	}
	return out
}
