package form

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-ezform/pkg/coerce"
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/validation"
)

// Controller tracks validation state for a fixed field schema.
type Controller struct {
	fields    []model.Field
	index     map[string]int
	states    states
	onChange  ChangeFunc
	logger    *zap.Logger
	observers []Observer
}

// New validates the schema and returns a controller with every field in the
// initial untouched state.
func New(fields []model.Field, options ...Option) (*Controller, error) {
	if err := model.ValidateFields(fields); err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	c := &Controller{
		fields: append([]model.Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
		states: newStates(fields),
		logger: zap.NewNop(),
	}
	for idx, field := range c.fields {
		c.index[field.Name] = idx
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.onChange == nil {
		logger := c.logger
		c.onChange = func(record model.Record) {
			logger.Debug("form change", zap.Any("record", record))
		}
	}
	return c, nil
}

// Fields returns the schema in declaration order.
func (c *Controller) Fields() []model.Field {
	return append([]model.Field(nil), c.fields...)
}

// Field returns the schema entry for name.
func (c *Controller) Field(name string) (model.Field, bool) {
	idx, ok := c.index[name]
	if !ok {
		return model.Field{}, false
	}
	return c.fields[idx], true
}

// State returns a copy of the validation state for name.
func (c *Controller) State(name string) (model.FieldState, bool) {
	return c.states.get(name)
}

// States returns a copy of every field's validation state.
func (c *Controller) States() map[string]model.FieldState {
	return c.states.clone()
}

// Valid reports whether every stored state is valid without re-running any
// validator.
func (c *Controller) Valid() bool {
	for _, state := range c.states {
		if !state.IsValid {
			return false
		}
	}
	return true
}

// Reset returns every field to the untouched initial state.
func (c *Controller) Reset() {
	c.states = newStates(c.fields)
	c.logger.Debug("form reset")
}

// ValidateField runs the field's validators against record, stores the result
// and marks the field as touched.
func (c *Controller) ValidateField(record model.Record, name string) (bool, error) {
	field, ok := c.Field(name)
	if !ok {
		return false, fmt.Errorf("form: validate: %w", model.UnknownField(name))
	}
	return c.validate(record, field), nil
}

// ValidateAll validates every field in schema order, bypassing the touched
// gate, and reports whether all of them passed. Every field is evaluated even
// after a failure so all errors surface at once.
func (c *Controller) ValidateAll(record model.Record) bool {
	valid := true
	for _, field := range c.fields {
		if !c.validate(record, field) {
			valid = false
		}
	}
	c.logger.Debug("form validated", zap.Bool("valid", valid))
	for _, observer := range c.observers {
		observer.FormValidated(valid)
	}
	return valid
}

// HandleChange coerces raw according to the field type and produces a new
// record with the value set. Validation runs only when forceValidate is set or
// the field is already touched; in that case every dependent field is
// re-validated too, regardless of its own touched state. The new record is
// passed to the change handler and returned.
func (c *Controller) HandleChange(record model.Record, name string, raw any, forceValidate bool) (model.Record, error) {
	field, ok := c.Field(name)
	if !ok {
		return nil, fmt.Errorf("form: change: %w", model.UnknownField(name))
	}

	next := record.With(name, coerce.Value(field.Type, raw))

	if forceValidate || c.states[name].FirstValueEntered {
		c.validate(next, field)
		for _, dep := range field.DependentFields {
			depField, ok := c.Field(dep)
			if !ok {
				return nil, fmt.Errorf("form: change: dependent of %q: %w", name, model.UnknownField(dep))
			}
			c.validate(next, depField)
		}
	}

	c.onChange(next)
	return next, nil
}

// HandleBlur touches the field when raw carries a value and then handles the
// change with validation forced, which is how errors first become visible.
func (c *Controller) HandleBlur(record model.Record, name string, raw any) (model.Record, error) {
	if _, ok := c.Field(name); !ok {
		return nil, fmt.Errorf("form: blur: %w", model.UnknownField(name))
	}
	if hasValue(raw) {
		c.states.touch(name)
	}
	return c.HandleChange(record, name, raw, true)
}

func (c *Controller) validate(record model.Record, field model.Field) bool {
	messages := validation.RunValidators(record, field.Name, field.Validators)
	valid := c.states.record(field.Name, messages)

	c.logger.Debug("field validated",
		zap.String("field", field.Name),
		zap.Bool("valid", valid),
		zap.Strings("messages", messages),
	)
	for _, observer := range c.observers {
		observer.FieldValidated(field.Name, valid, messages)
	}
	return valid
}

func hasValue(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case string:
		return len(v) > 0
	case bool:
		return v
	case float64:
		return !coerce.IsNaN(v)
	default:
		return true
	}
}
