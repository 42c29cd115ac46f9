package form

import "github.com/goliatone/go-ezform/pkg/model"

// states holds the validation metadata keyed by field name. All writes go
// through the methods below so the Untouched -> Touched transition and the
// validity bookkeeping stay in one place.
type states map[string]model.FieldState

func newStates(fields []model.Field) states {
	out := make(states, len(fields))
	for _, field := range fields {
		out[field.Name] = model.InitialFieldState()
	}
	return out
}

// touch marks the field as touched without changing validity or messages.
func (s states) touch(name string) {
	state := s[name]
	state.FirstValueEntered = true
	s[name] = state
}

// record stores the outcome of a validation run. Validating always touches
// the field.
func (s states) record(name string, messages []string) bool {
	valid := len(messages) == 0
	s[name] = model.FieldState{
		IsValid:           valid,
		FirstValueEntered: true,
		Messages:          append([]string{}, messages...),
	}
	return valid
}

func (s states) get(name string) (model.FieldState, bool) {
	state, ok := s[name]
	if !ok {
		return model.FieldState{}, false
	}
	return state.Clone(), true
}

func (s states) clone() map[string]model.FieldState {
	out := make(map[string]model.FieldState, len(s))
	for name, state := range s {
		out[name] = state.Clone()
	}
	return out
}
