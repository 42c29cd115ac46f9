package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-ezform/pkg/form"
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/render"
	"github.com/goliatone/go-ezform/pkg/renderers/html"
	"github.com/goliatone/go-ezform/pkg/schema"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers transformers applied in order to every form
// before its controller is built.
func WithTransformer(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		for _, t := range transformers {
			if t != nil {
				o.transformers = append(o.transformers, t)
			}
		}
	}
}

// WithLogger routes pipeline and controller logs to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver attaches an observer to every controller the orchestrator
// builds.
func WithObserver(observer form.Observer) Option {
	return func(o *Orchestrator) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}

// Orchestrator coordinates the pipeline from a schema form to rendered
// output. It defaults to the embedded HTML renderer.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	observers       []form.Observer
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one pass through the pipeline.
type Request struct {
	// Form supplies the fields and initial data.
	Form schema.Form

	// Record overrides individual values of Form.Data.
	Record model.Record

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// Validate runs a full validation before rendering so every error is
	// visible, the way a submit attempt would.
	Validate bool

	// RenderOptions carries per-request instructions such as the action URL,
	// hidden inputs, or server-side errors.
	RenderOptions render.RenderOptions
}

// Session is a prepared form: its controller and the merged starting record.
type Session struct {
	Form       schema.Form
	Controller *form.Controller
	Record     model.Record
}

// Report summarises a full validation run.
type Report struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors"`
	Record model.Record        `json:"record"`
}

// Prepare applies transformers, builds the controller and merges the request
// record over the form data.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (*Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}

	target := req.Form
	target.Fields = append([]model.Field(nil), req.Form.Fields...)
	target.Data = req.Form.Data.Clone()
	for _, t := range o.transformers {
		if err := t.Transform(ctx, &target); err != nil {
			return nil, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}

	options := []form.Option{form.WithLogger(o.logger)}
	for _, observer := range o.observers {
		options = append(options, form.WithObserver(observer))
	}
	ctrl, err := form.New(target.Fields, options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build controller for %q: %w", target.ID, err)
	}

	record := target.Data.Clone()
	for key, value := range req.Record {
		record[key] = value
	}

	o.logger.Debug("form prepared",
		zap.String("form", target.ID),
		zap.Int("fields", len(target.Fields)),
	)
	return &Session{Form: target, Controller: ctrl, Record: record}, nil
}

// Validate prepares the form and validates the merged record.
func (o *Orchestrator) Validate(ctx context.Context, req Request) (Report, error) {
	session, err := o.Prepare(ctx, req)
	if err != nil {
		return Report{}, err
	}
	return ReportFor(session.Controller, session.Record), nil
}

// ReportFor runs ValidateAll on ctrl and collects the messages of every
// invalid field.
func ReportFor(ctrl *form.Controller, record model.Record) Report {
	report := Report{
		Valid:  ctrl.ValidateAll(record),
		Errors: map[string][]string{},
		Record: record,
	}
	for name, state := range ctrl.States() {
		if !state.IsValid {
			report.Errors[name] = state.Messages
		}
	}
	return report
}

// InvalidFields lists the fields with errors in lexical order.
func (r Report) InvalidFields() []string {
	names := make([]string, 0, len(r.Errors))
	for name := range r.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate executes the prepare → view → render sequence and returns the
// rendered bytes (HTML for the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	session, err := o.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.Validate {
		session.Controller.ValidateAll(session.Record)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	view := render.BuildFormView(session.Controller, session.Record)
	output, err := renderer.Render(ctx, view, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry != nil {
		return
	}
	renderer, err := html.New()
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		return
	}
	registry, err := render.NewRegistry(renderer)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default registry: %w", err)
		return
	}
	o.registry = registry
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
