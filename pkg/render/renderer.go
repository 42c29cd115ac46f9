package render

import "context"

// Renderer converts a FormView into a byte representation (HTML, text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view FormView, options RenderOptions) ([]byte, error)
}

// RenderOptions carry per-request data renderers use without touching the
// view model.
type RenderOptions struct {
	// Action and Method populate the enclosing form element. Method defaults
	// to POST.
	Action string
	Method string
	// SubmitLabel overrides the submit button text.
	SubmitLabel string
	// Hidden fields are emitted before the visible controls, sorted by name.
	Hidden []HiddenField
	// Errors holds server side messages keyed by field name, typically the
	// Fields of MapErrorPayload. They are shown alongside client messages.
	Errors map[string][]string
	// FormErrors are rendered above the fields.
	FormErrors []string
}
