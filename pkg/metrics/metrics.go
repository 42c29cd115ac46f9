// Package metrics exposes Prometheus counters for form validation runs. A
// Collector implements form.Observer, so it can be attached to a controller
// with form.WithObserver.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const defaultNamespace = "ezform"

// Collector counts field validations and whole-form submits on its own
// registry.
type Collector struct {
	registry         *prometheus.Registry
	fieldValidations *prometheus.CounterVec
	fieldMessages    *prometheus.CounterVec
	formSubmits      *prometheus.CounterVec
}

// NewCollector registers the form counters under namespace (default
// "ezform") on a fresh registry.
func NewCollector(namespace string) (*Collector, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		fieldValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_validations_total",
				Help:      "Field validation runs by field and outcome.",
			},
			[]string{"field", "result"},
		),
		fieldMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_messages_total",
				Help:      "Validation messages produced per field.",
			},
			[]string{"field"},
		),
		formSubmits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "form_validations_total",
				Help:      "Whole-form validation runs by outcome.",
			},
			[]string{"result"},
		),
	}

	for _, collector := range []prometheus.Collector{c.fieldValidations, c.fieldMessages, c.formSubmits} {
		if err := c.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// Registry returns the registry holding the form counters.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// FieldValidated records one field validation run.
func (c *Collector) FieldValidated(field string, valid bool, messages []string) {
	c.fieldValidations.WithLabelValues(field, result(valid)).Inc()
	if len(messages) > 0 {
		c.fieldMessages.WithLabelValues(field).Add(float64(len(messages)))
	}
}

// FormValidated records one whole-form validation run.
func (c *Collector) FormValidated(valid bool) {
	c.formSubmits.WithLabelValues(result(valid)).Inc()
}

// FieldCounter returns the field validation counter for field and outcome.
func (c *Collector) FieldCounter(field string, valid bool) prometheus.Counter {
	return c.fieldValidations.WithLabelValues(field, result(valid))
}

// FormCounter returns the whole-form validation counter for an outcome.
func (c *Collector) FormCounter(valid bool) prometheus.Counter {
	return c.formSubmits.WithLabelValues(result(valid))
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("metrics: write %s: %w", family.GetName(), err)
		}
	}
	return nil
}

func result(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
