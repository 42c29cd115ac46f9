package form_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ezform/examples/contact"
	"github.com/goliatone/go-ezform/pkg/form"
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/validation"
)

func newContactController(t *testing.T, options ...form.Option) *form.Controller {
	t.Helper()
	ctrl, err := form.New(contact.Fields(), options...)
	if err != nil {
		t.Fatalf("form.New returned error: %v", err)
	}
	return ctrl
}

func mustState(t *testing.T, ctrl *form.Controller, name string) model.FieldState {
	t.Helper()
	state, ok := ctrl.State(name)
	if !ok {
		t.Fatalf("no state for field %q", name)
	}
	return state
}

func TestNewInitialisesUntouchedStates(t *testing.T) {
	ctrl := newContactController(t)

	for _, field := range contact.Fields() {
		got := mustState(t, ctrl, field.Name)
		if diff := cmp.Diff(model.InitialFieldState(), got); diff != "" {
			t.Fatalf("initial state for %q mismatch (-want +got):\n%s", field.Name, diff)
		}
	}
	if !ctrl.Valid() {
		t.Fatalf("expected fresh controller to be valid")
	}
}

func TestNewRejectsInvalidSchema(t *testing.T) {
	cases := map[string]struct {
		fields []model.Field
		want   error
	}{
		"duplicate": {
			fields: []model.Field{{Name: "a", Type: model.FieldTypeString}, {Name: "a", Type: model.FieldTypeString}},
			want:   model.ErrDuplicateField,
		},
		"unknown type": {
			fields: []model.Field{{Name: "a", Type: "date"}},
			want:   model.ErrInvalidFieldType,
		},
		"self dependency": {
			fields: []model.Field{{Name: "a", Type: model.FieldTypeString, DependentFields: []string{"a"}}},
			want:   model.ErrInvalidDependency,
		},
		"missing dependency": {
			fields: []model.Field{{Name: "a", Type: model.FieldTypeString, DependentFields: []string{"b"}}},
			want:   model.ErrInvalidDependency,
		},
		"empty name": {
			fields: []model.Field{{Type: model.FieldTypeString}},
			want:   model.ErrInvalidFieldName,
		},
		"nil predicate": {
			fields: []model.Field{{Name: "a", Type: model.FieldTypeString, Validators: []model.Validator{{Message: "x"}}}},
			want:   model.ErrMissingPredicate,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := form.New(tc.fields)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var schemaErr *model.SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected *model.SchemaError, got %T", err)
			}
		})
	}
}

func TestValidateFieldUnknownField(t *testing.T) {
	ctrl := newContactController(t)

	_, err := ctrl.ValidateField(contact.InitialData(), "nickname")
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := ctrl.HandleChange(contact.InitialData(), "nickname", "x", false); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("HandleChange: expected ErrUnknownField, got %v", err)
	}
	if _, err := ctrl.HandleBlur(contact.InitialData(), "nickname", "x"); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("HandleBlur: expected ErrUnknownField, got %v", err)
	}
}

func TestValidateFieldConfirmEmailScenarios(t *testing.T) {
	ctrl := newContactController(t)

	record := contact.InitialData().With("email", "a@b.com")
	valid, err := ctrl.ValidateField(record, "confirmEmail")
	if err != nil {
		t.Fatalf("ValidateField returned error: %v", err)
	}
	if valid {
		t.Fatalf("expected confirmEmail to be invalid")
	}
	want := model.FieldState{IsValid: false, FirstValueEntered: true, Messages: []string{"Field required"}}
	if diff := cmp.Diff(want, mustState(t, ctrl, "confirmEmail")); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	record = record.With("confirmEmail", "A@B.com")
	valid, err = ctrl.ValidateField(record, "confirmEmail")
	if err != nil {
		t.Fatalf("ValidateField returned error: %v", err)
	}
	if !valid {
		t.Fatalf("expected case-insensitive confirmation to pass")
	}
	if got := mustState(t, ctrl, "confirmEmail").Messages; len(got) != 0 {
		t.Fatalf("expected no messages, got %v", got)
	}
}

func TestValidateFieldPhoneTypePlaceholder(t *testing.T) {
	ctrl := newContactController(t)

	valid, err := ctrl.ValidateField(model.Record{"phoneType": float64(-1)}, "phoneType")
	if err != nil {
		t.Fatalf("ValidateField returned error: %v", err)
	}
	if valid {
		t.Fatalf("expected placeholder selection to be invalid")
	}
	if state := mustState(t, ctrl, "phoneType"); state.IsValid {
		t.Fatalf("expected stored state to be invalid")
	}
}

func TestValidateFieldMessagesFollowDeclarationOrder(t *testing.T) {
	fields := []model.Field{{
		Name: "code",
		Type: model.FieldTypeString,
		Validators: []model.Validator{
			validation.MinLength(5, "too short"),
			validation.Custom("digits", "digits only", func(r model.Record, f string) bool { return false }),
			validation.Required("required"),
			validation.Custom("upper", "uppercase only", func(r model.Record, f string) bool { return false }),
		},
	}}
	ctrl, err := form.New(fields)
	if err != nil {
		t.Fatalf("form.New returned error: %v", err)
	}

	if _, err := ctrl.ValidateField(model.Record{"code": "ab"}, "code"); err != nil {
		t.Fatalf("ValidateField returned error: %v", err)
	}
	want := []string{"too short", "digits only", "uppercase only"}
	if diff := cmp.Diff(want, mustState(t, ctrl, "code").Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateFieldIsIdempotent(t *testing.T) {
	ctrl := newContactController(t)
	record := contact.InitialData()

	first, _ := ctrl.ValidateField(record, "firstName")
	firstState := mustState(t, ctrl, "firstName")
	second, _ := ctrl.ValidateField(record, "firstName")
	if first != second {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	if diff := cmp.Diff(firstState, mustState(t, ctrl, "firstName")); diff != "" {
		t.Fatalf("state changed on repeat validation (-first +second):\n%s", diff)
	}
}

func TestHandleChangeUntouchedFieldStaysSilent(t *testing.T) {
	ctrl := newContactController(t)
	record := contact.InitialData()

	for _, field := range contact.Fields() {
		next, err := ctrl.HandleChange(record, field.Name, "", false)
		if err != nil {
			t.Fatalf("HandleChange(%q) returned error: %v", field.Name, err)
		}
		record = next
	}

	for _, field := range contact.Fields() {
		if diff := cmp.Diff(model.InitialFieldState(), mustState(t, ctrl, field.Name)); diff != "" {
			t.Fatalf("state for %q changed before first interaction (-want +got):\n%s", field.Name, diff)
		}
	}
}

func TestHandleChangeProducesNewRecordAndNotifies(t *testing.T) {
	var notified []model.Record
	ctrl := newContactController(t, form.WithChangeHandler(func(r model.Record) {
		notified = append(notified, r)
	}))

	original := contact.InitialData()
	next, err := ctrl.HandleChange(original, "firstName", "Ada", false)
	if err != nil {
		t.Fatalf("HandleChange returned error: %v", err)
	}

	if original["firstName"] != "" {
		t.Fatalf("original record mutated: %v", original["firstName"])
	}
	if next["firstName"] != "Ada" {
		t.Fatalf("new record missing change: %v", next["firstName"])
	}
	if len(notified) != 1 {
		t.Fatalf("expected one notification, got %d", len(notified))
	}
	if diff := cmp.Diff(map[string]any(next), map[string]any(notified[0])); diff != "" {
		t.Fatalf("notified record mismatch (-returned +notified):\n%s", diff)
	}
}

func TestHandleChangeCoercesByFieldType(t *testing.T) {
	ctrl := newContactController(t)

	next, err := ctrl.HandleChange(contact.InitialData(), "subscribeMe", "Y", false)
	if err != nil {
		t.Fatalf("HandleChange returned error: %v", err)
	}
	if next["subscribeMe"] != true {
		t.Fatalf("expected subscribeMe coerced to true, got %#v", next["subscribeMe"])
	}

	next, err = ctrl.HandleChange(next, "phoneType", "3", false)
	if err != nil {
		t.Fatalf("HandleChange returned error: %v", err)
	}
	if next["phoneType"] != float64(3) {
		t.Fatalf("expected phoneType coerced to 3, got %#v", next["phoneType"])
	}

	next, err = ctrl.HandleChange(next, "phoneType", "home", false)
	if err != nil {
		t.Fatalf("HandleChange returned error: %v", err)
	}
	if f, ok := next["phoneType"].(float64); !ok || !math.IsNaN(f) {
		t.Fatalf("expected NaN to flow through, got %#v", next["phoneType"])
	}
}

func TestHandleChangeForcedValidatesDependents(t *testing.T) {
	ctrl := newContactController(t)
	record := contact.InitialData()

	next, err := ctrl.HandleChange(record, "email", "a@b.com", true)
	if err != nil {
		t.Fatalf("HandleChange returned error: %v", err)
	}

	if state := mustState(t, ctrl, "email"); !state.IsValid || !state.Touched() {
		t.Fatalf("expected email validated and touched, got %+v", state)
	}
	// Dependents are validated even though they were never touched.
	confirm := mustState(t, ctrl, "confirmEmail")
	if confirm.IsValid || !confirm.Touched() {
		t.Fatalf("expected confirmEmail validated and invalid, got %+v", confirm)
	}
	if subscribe := mustState(t, ctrl, "subscribeMe"); !subscribe.IsValid || !subscribe.Touched() {
		t.Fatalf("expected subscribeMe validated, got %+v", subscribe)
	}
	if next["email"] != "a@b.com" {
		t.Fatalf("unexpected record: %v", next)
	}
}

func TestHandleChangeTouchedFieldRevalidatesWithDependents(t *testing.T) {
	ctrl := newContactController(t)
	record := contact.InitialData().With("email", "a@b.com")

	// Touch confirmEmail through a blur with a mismatching value.
	record, err := ctrl.HandleBlur(record, "confirmEmail", "x@y.com")
	if err != nil {
		t.Fatalf("HandleBlur returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"Email addresses do not match"}, mustState(t, ctrl, "confirmEmail").Messages); diff != "" {
		t.Fatalf("confirmEmail messages mismatch (-want +got):\n%s", diff)
	}

	// Changing email (touched as dependent) re-validates confirmEmail in the same call.
	record, err = ctrl.HandleChange(record, "email", "X@Y.com", false)
	if err != nil {
		t.Fatalf("HandleChange returned error: %v", err)
	}
	if state := mustState(t, ctrl, "confirmEmail"); !state.IsValid {
		t.Fatalf("expected confirmEmail to become valid, got %+v", state)
	}
	if record["email"] != "X@Y.com" {
		t.Fatalf("unexpected email %v", record["email"])
	}
}

func TestHandleBlurRevealsErrors(t *testing.T) {
	ctrl := newContactController(t)

	if _, err := ctrl.HandleBlur(contact.InitialData(), "firstName", ""); err != nil {
		t.Fatalf("HandleBlur returned error: %v", err)
	}
	want := model.FieldState{IsValid: false, FirstValueEntered: true, Messages: []string{"Required field"}}
	if diff := cmp.Diff(want, mustState(t, ctrl, "firstName")); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	// Once touched, plain changes validate.
	if _, err := ctrl.HandleChange(contact.InitialData(), "firstName", "Ada", false); err != nil {
		t.Fatalf("HandleChange returned error: %v", err)
	}
	if state := mustState(t, ctrl, "firstName"); !state.IsValid || len(state.Messages) != 0 {
		t.Fatalf("expected firstName valid after change, got %+v", state)
	}
}

func TestHandleBlurCheckboxValue(t *testing.T) {
	ctrl := newContactController(t)

	next, err := ctrl.HandleBlur(contact.InitialData(), "subscribeMe", true)
	if err != nil {
		t.Fatalf("HandleBlur returned error: %v", err)
	}
	if next["subscribeMe"] != true {
		t.Fatalf("expected subscribeMe true, got %#v", next["subscribeMe"])
	}
	state := mustState(t, ctrl, "subscribeMe")
	want := model.FieldState{IsValid: false, FirstValueEntered: true, Messages: []string{"Please provide a valid and confirmed email"}}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAllSurfacesEveryError(t *testing.T) {
	ctrl := newContactController(t)

	if ctrl.ValidateAll(contact.InitialData()) {
		t.Fatalf("expected empty contact form to fail")
	}

	for _, field := range contact.Fields() {
		if !mustState(t, ctrl, field.Name).Touched() {
			t.Fatalf("expected %q to be touched after ValidateAll", field.Name)
		}
	}
	wantInvalid := []string{"firstName", "lastName", "phone", "phoneType", "email"}
	for _, name := range wantInvalid {
		if mustState(t, ctrl, name).IsValid {
			t.Fatalf("expected %q to be invalid", name)
		}
	}
	for _, name := range []string{"confirmEmail", "subscribeMe"} {
		if !mustState(t, ctrl, name).IsValid {
			t.Fatalf("expected %q to be valid", name)
		}
	}
	if ctrl.Valid() {
		t.Fatalf("expected Valid to reflect stored failures")
	}
}

func TestValidateAllIsIdempotent(t *testing.T) {
	ctrl := newContactController(t)
	record := contact.InitialData().With("email", "bad")

	first := ctrl.ValidateAll(record)
	firstStates := ctrl.States()
	second := ctrl.ValidateAll(record)

	if first != second {
		t.Fatalf("ValidateAll results differ: %v vs %v", first, second)
	}
	if diff := cmp.Diff(firstStates, ctrl.States()); diff != "" {
		t.Fatalf("states differ between runs (-first +second):\n%s", diff)
	}
}

func TestValidateAllValidRecord(t *testing.T) {
	ctrl := newContactController(t)

	if !ctrl.ValidateAll(contact.ValidData()) {
		t.Fatalf("expected valid record to pass, states: %+v", ctrl.States())
	}
	for name, state := range ctrl.States() {
		if !state.IsValid || len(state.Messages) != 0 {
			t.Fatalf("expected %q valid without messages, got %+v", name, state)
		}
	}
}

func TestStatesReturnsCopies(t *testing.T) {
	ctrl := newContactController(t)
	ctrl.ValidateAll(contact.InitialData())

	states := ctrl.States()
	first := states["firstName"]
	first.Messages[0] = "mutated"

	if got := mustState(t, ctrl, "firstName").Messages[0]; got != "Required field" {
		t.Fatalf("controller state mutated through copy: %q", got)
	}
}

func TestReset(t *testing.T) {
	ctrl := newContactController(t)
	ctrl.ValidateAll(contact.InitialData())
	ctrl.Reset()

	for _, field := range contact.Fields() {
		if diff := cmp.Diff(model.InitialFieldState(), mustState(t, ctrl, field.Name)); diff != "" {
			t.Fatalf("state for %q not reset (-want +got):\n%s", field.Name, diff)
		}
	}
}

type recordingObserver struct {
	fields []string
	forms  []bool
}

func (o *recordingObserver) FieldValidated(field string, valid bool, messages []string) {
	o.fields = append(o.fields, field)
}

func (o *recordingObserver) FormValidated(valid bool) {
	o.forms = append(o.forms, valid)
}

func TestObserverReceivesValidationRuns(t *testing.T) {
	observer := &recordingObserver{}
	ctrl := newContactController(t, form.WithObserver(observer))

	if _, err := ctrl.HandleChange(contact.InitialData(), "email", "a@b.com", true); err != nil {
		t.Fatalf("HandleChange returned error: %v", err)
	}
	want := []string{"email", "confirmEmail", "subscribeMe"}
	if diff := cmp.Diff(want, observer.fields); diff != "" {
		t.Fatalf("observed fields mismatch (-want +got):\n%s", diff)
	}

	ctrl.ValidateAll(contact.ValidData())
	if diff := cmp.Diff([]bool{true}, observer.forms); diff != "" {
		t.Fatalf("observed form results mismatch (-want +got):\n%s", diff)
	}
}
