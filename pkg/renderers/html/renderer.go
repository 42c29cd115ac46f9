package html

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-ezform/pkg/render"
	rendertemplate "github.com/goliatone/go-ezform/pkg/render/template"
)

const (
	defaultMethod = "POST"
	defaultSubmit = "Submit"
	formTemplate  = "form"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	filters          []filter
}

type filter struct {
	name string
	fn   func(input any, param any) (any, error)
}

// WithTemplatesFS replaces the embedded template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from path, falling back to the embedded
// bundle for any template the directory does not define.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer. It must resolve
// the "form" template.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithFilter makes a pongo2 filter available to the templates, typically for
// custom templates loaded with WithTemplatesDir.
func WithFilter(name string, fn func(input any, param any) (any, error)) Option {
	return func(cfg *config) {
		if name != "" && fn != nil {
			cfg.filters = append(cfg.filters, filter{name: name, fn: fn})
		}
	}
}

// WithPolicy replaces HookPolicy as the sanitizer for render hook output.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer produces Bootstrap flavoured HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOptions := []rendertemplate.Option{rendertemplate.WithFS(cfg.templateFS)}
		if cfg.templateDir != "" {
			engineOptions = append(engineOptions, rendertemplate.WithBaseDir(cfg.templateDir))
		}
		engine, err := rendertemplate.New(engineOptions...)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}
	for _, f := range cfg.filters {
		if err := templates.RegisterFilter(f.name, f.fn); err != nil {
			return nil, fmt.Errorf("html renderer: %w", err)
		}
	}

	policy := cfg.policy
	if policy == nil {
		policy = HookPolicy()
	}
	return &Renderer{templates: templates, policy: policy}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type formData struct {
	Form   render.FormView      `json:"form"`
	Action string               `json:"action"`
	Method string               `json:"method"`
	Submit string               `json:"submit"`
	Hidden []render.HiddenField `json:"hidden"`
}

// Render merges server errors from options into the view, sanitizes hook
// markup and executes the form template.
func (r *Renderer) Render(ctx context.Context, view render.FormView, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(options.Errors) > 0 || len(options.FormErrors) > 0 {
		view = view.WithErrors(options.Errors, options.FormErrors)
	}
	view.Fields = append([]render.FieldView(nil), view.Fields...)
	for idx := range view.Fields {
		fv := &view.Fields[idx]
		fv.Label.Markup = sanitize(r.policy, fv.Label.Markup)
		fv.Control.Markup = sanitize(r.policy, fv.Control.Markup)
		fv.Tooltip = sanitize(r.policy, fv.Tooltip)
	}

	data := formData{
		Form:   view,
		Action: options.Action,
		Method: strings.ToUpper(strings.TrimSpace(options.Method)),
		Submit: strings.TrimSpace(options.SubmitLabel),
		Hidden: render.SortedHiddenFields(options.Hidden),
	}
	if data.Method == "" {
		data.Method = defaultMethod
	}
	if data.Submit == "" {
		data.Submit = defaultSubmit
	}

	out, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	return []byte(out), nil
}
