package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-ezform/pkg/model"
)

// ChangeFunc receives the record produced by a change. Hosts store it and pass
// it back on the next call.
type ChangeFunc func(record model.Record)

// Observer is notified after validation runs. Implementations must not call
// back into the controller.
type Observer interface {
	FieldValidated(field string, valid bool, messages []string)
	FormValidated(valid bool)
}

// Option configures a Controller.
type Option func(*Controller)

// WithChangeHandler registers the host callback invoked with every new record.
func WithChangeHandler(fn ChangeFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.onChange = fn
		}
	}
}

// WithLogger routes controller debug logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver adds an observer for validation outcomes.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observers = append(c.observers, observer)
		}
	}
}
