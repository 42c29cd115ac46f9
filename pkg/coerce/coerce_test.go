package coerce_test

import (
	"math"
	"testing"

	"github.com/goliatone/go-ezform/pkg/coerce"
	"github.com/goliatone/go-ezform/pkg/model"
)

func TestBoolean(t *testing.T) {
	cases := []struct {
		raw  any
		want bool
	}{
		{"Y", true},
		{"yes", true},
		{" TRUE ", true},
		{"1", true},
		{"On", true},
		{"no", false},
		{"", false},
		{"0", false},
		{"truthy", false},
		{nil, false},
		{true, true},
		{false, false},
		{1, true},
		{0, false},
	}

	for _, tc := range cases {
		if got := coerce.Boolean(tc.raw); got != tc.want {
			t.Fatalf("Boolean(%#v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		raw  any
		want float64
	}{
		{"42", 42},
		{" 007 ", 7},
		{"-1", -1},
		{"1.5e2", 150},
		{"", 0},
		{"   ", 0},
		{"0x1A", 26},
		{"Infinity", math.Inf(1)},
		{true, 1},
		{false, 0},
		{nil, 0},
		{3, 3},
		{int64(-4), -4},
		{float32(2.5), 2.5},
	}

	for _, tc := range cases {
		if got := coerce.Number(tc.raw); got != tc.want {
			t.Fatalf("Number(%#v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNumberNonNumericIsNaN(t *testing.T) {
	for _, raw := range []any{"abc", "12abc", "1_000", "nan", "inf", []string{"x"}} {
		if got := coerce.Number(raw); !math.IsNaN(got) {
			t.Fatalf("Number(%#v) = %v, want NaN", raw, got)
		}
	}
}

func TestValueDispatchesOnFieldType(t *testing.T) {
	if got := coerce.Value(model.FieldTypeNumber, "12"); got != float64(12) {
		t.Fatalf("number coercion = %#v", got)
	}
	if got := coerce.Value(model.FieldTypeBoolean, "Y"); got != true {
		t.Fatalf("boolean coercion = %#v", got)
	}
	if got := coerce.Value(model.FieldTypeString, "12"); got != "12" {
		t.Fatalf("string passthrough = %#v", got)
	}
	obj := map[string]any{"k": "v"}
	got := coerce.Value(model.FieldTypeObject, obj)
	if m, ok := got.(map[string]any); !ok || m["k"] != "v" {
		t.Fatalf("object passthrough = %#v", got)
	}
	if !coerce.IsNaN(coerce.Value(model.FieldTypeNumber, "abc")) {
		t.Fatalf("expected NaN for non-numeric number input")
	}
}

func TestJSONSafeReplacesNaN(t *testing.T) {
	src := model.Record{"phoneType": math.NaN(), "email": "a@b.co", "subscribeMe": true}
	got := coerce.JSONSafe(src)

	if got["phoneType"] != nil {
		t.Fatalf("expected NaN to become nil, got %v", got["phoneType"])
	}
	if got["email"] != "a@b.co" || got["subscribeMe"] != true {
		t.Fatalf("expected other values untouched, got %v", got)
	}
	if !coerce.IsNaN(src["phoneType"]) {
		t.Fatalf("source record must not be modified")
	}
}
