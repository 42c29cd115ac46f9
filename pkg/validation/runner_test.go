package validation_test

import (
	"math"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/validation"
)

func TestRunValidatorsPreservesDeclarationOrder(t *testing.T) {
	fail := func(msg string) model.Validator {
		return validation.Custom("fail", msg, func(model.Record, string) bool { return false })
	}
	pass := validation.Custom("pass", "never", func(model.Record, string) bool { return true })

	got := validation.RunValidators(model.Record{}, "x", []model.Validator{fail("third"), pass, fail("first"), fail("second")})
	want := []string{"third", "first", "second"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRunValidatorsEmptyWhenValid(t *testing.T) {
	got := validation.RunValidators(model.Record{"name": "Ada"}, "name", []model.Validator{validation.Required("Required field")})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRequired(t *testing.T) {
	v := validation.Required("Required field")
	cases := []struct {
		value any
		want  bool
	}{
		{"", false},
		{nil, false},
		{math.NaN(), false},
		{"x", true},
		{float64(0), true},
		{false, true},
	}
	for _, tc := range cases {
		if got := v.Predicate.Validate(model.Record{"f": tc.value}, "f"); got != tc.want {
			t.Fatalf("Required(%#v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestPatternAllowsEmpty(t *testing.T) {
	v := validation.Pattern(regexp.MustCompile(`\d{3}-\d{3}-\d{4}`), "Invalid phone number")
	if !v.Predicate.Validate(model.Record{"phone": ""}, "phone") {
		t.Fatalf("empty value should pass pattern")
	}
	if v.Predicate.Validate(model.Record{"phone": "12345"}, "phone") {
		t.Fatalf("malformed phone should fail")
	}
	if !v.Predicate.Validate(model.Record{"phone": "111-222-3333"}, "phone") {
		t.Fatalf("valid phone should pass")
	}
}

func TestEmailAndFormat(t *testing.T) {
	v := validation.Email("Invalid email")
	if !v.Predicate.Validate(model.Record{"email": "a@b.com"}, "email") {
		t.Fatalf("expected valid email")
	}
	if v.Predicate.Validate(model.Record{"email": "nope"}, "email") {
		t.Fatalf("expected invalid email")
	}
	if !v.Predicate.Validate(model.Record{"email": ""}, "email") {
		t.Fatalf("empty email should pass format check")
	}

	if _, err := validation.Format("definitely-not-a-tag", "x"); err == nil {
		t.Fatalf("expected unknown tag error")
	}
	url, err := validation.Format("url", "Invalid URL")
	if err != nil {
		t.Fatalf("Format(url) returned error: %v", err)
	}
	if !url.Predicate.Validate(model.Record{"site": "https://example.com"}, "site") {
		t.Fatalf("expected valid url")
	}
}

func TestRequiredIfAndEqualsField(t *testing.T) {
	required := validation.RequiredIf("email", "Field required")
	match := validation.EqualsField("email", true, "Email addresses do not match")

	record := model.Record{"email": "a@b.com", "confirmEmail": ""}
	if required.Predicate.Validate(record, "confirmEmail") {
		t.Fatalf("confirmEmail should be required while email is set")
	}
	if !match.Predicate.Validate(record, "confirmEmail") {
		t.Fatalf("empty confirmEmail should not report mismatch")
	}

	record = model.Record{"email": "a@b.com", "confirmEmail": "A@B.com"}
	if !required.Predicate.Validate(record, "confirmEmail") || !match.Predicate.Validate(record, "confirmEmail") {
		t.Fatalf("case-insensitive confirmation should pass")
	}

	record = model.Record{"email": "", "confirmEmail": ""}
	if !required.Predicate.Validate(record, "confirmEmail") {
		t.Fatalf("confirmEmail should be optional while email is empty")
	}

	strict := validation.EqualsField("email", false, "mismatch")
	if strict.Predicate.Validate(model.Record{"email": "a@b.com", "confirmEmail": "A@B.com"}, "confirmEmail") {
		t.Fatalf("case-sensitive comparison should fail")
	}
}

func TestSelected(t *testing.T) {
	v := validation.Selected("Required field")
	cases := []struct {
		value any
		want  bool
	}{
		{float64(-1), false},
		{nil, false},
		{float64(0), false},
		{math.NaN(), false},
		{float64(1), true},
		{float64(4), true},
		{"2", true},
	}
	for _, tc := range cases {
		if got := v.Predicate.Validate(model.Record{"phoneType": tc.value}, "phoneType"); got != tc.want {
			t.Fatalf("Selected(%#v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestBoundsAndLengths(t *testing.T) {
	min := validation.Min(18, false, "too young")
	max := validation.Max(10, true, "too many")
	if min.Predicate.Validate(model.Record{"age": float64(17)}, "age") {
		t.Fatalf("17 should fail min 18")
	}
	if !min.Predicate.Validate(model.Record{"age": float64(18)}, "age") {
		t.Fatalf("18 should pass inclusive min")
	}
	if min.Predicate.Validate(model.Record{"age": math.NaN()}, "age") {
		t.Fatalf("NaN should fail bounds")
	}
	if !min.Predicate.Validate(model.Record{}, "age") {
		t.Fatalf("missing value should pass bounds")
	}
	if max.Predicate.Validate(model.Record{"n": float64(10)}, "n") {
		t.Fatalf("10 should fail exclusive max 10")
	}

	minLen := validation.MinLength(3, "short")
	maxLen := validation.MaxLength(3, "long")
	if minLen.Predicate.Validate(model.Record{"s": "ab"}, "s") || !minLen.Predicate.Validate(model.Record{"s": ""}, "s") {
		t.Fatalf("minLength mismatch")
	}
	if maxLen.Predicate.Validate(model.Record{"s": "abcd"}, "s") || !maxLen.Predicate.Validate(model.Record{"s": "äöü"}, "s") {
		t.Fatalf("maxLength should count runes")
	}

	number := validation.Number("not a number")
	if number.Predicate.Validate(model.Record{"n": math.NaN()}, "n") {
		t.Fatalf("NaN should fail number rule")
	}
	if !number.Predicate.Validate(model.Record{"n": float64(2)}, "n") {
		t.Fatalf("2 should pass number rule")
	}
}

func TestOneOfAndExpr(t *testing.T) {
	oneOf := validation.OneOf([]any{"draft", "published"}, "invalid status")
	if oneOf.Predicate.Validate(model.Record{"status": "archived"}, "status") {
		t.Fatalf("archived should not be allowed")
	}
	if !oneOf.Predicate.Validate(model.Record{"status": "draft"}, "status") {
		t.Fatalf("draft should be allowed")
	}

	v, err := validation.Expr("phoneType > -1", "Required field")
	if err != nil {
		t.Fatalf("Expr returned error: %v", err)
	}
	if v.Predicate.Validate(model.Record{"phoneType": float64(-1)}, "phoneType") {
		t.Fatalf("expected expression to fail")
	}
	if _, err := validation.Expr("a = b", "x"); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestCombinators(t *testing.T) {
	subscribe := validation.Any(
		validation.IsFalse("subscribeMe"),
		validation.All(validation.NonEmpty("email"), validation.EqualFold("email", "confirmEmail")),
	)

	cases := []struct {
		record model.Record
		want   bool
	}{
		{model.Record{"subscribeMe": false, "email": "", "confirmEmail": ""}, true},
		{model.Record{"subscribeMe": true, "email": "", "confirmEmail": ""}, false},
		{model.Record{"subscribeMe": true, "email": "a@b.com", "confirmEmail": "x@y.com"}, false},
		{model.Record{"subscribeMe": true, "email": "a@b.com", "confirmEmail": "A@b.COM"}, true},
	}
	for i, tc := range cases {
		if got := subscribe.Validate(tc.record, "subscribeMe"); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}

	if validation.Not(validation.IsTrue("")).Validate(model.Record{"x": true}, "x") {
		t.Fatalf("Not(IsTrue) should fail for true")
	}
}
