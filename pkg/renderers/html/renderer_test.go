package html_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-ezform/examples/contact"
	"github.com/goliatone/go-ezform/pkg/form"
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/render"
	"github.com/goliatone/go-ezform/pkg/renderers/html"
)

func renderContact(t *testing.T, record model.Record, validate bool, options render.RenderOptions, rendererOptions ...html.Option) string {
	t.Helper()
	ctrl, err := form.New(contact.Fields())
	if err != nil {
		t.Fatalf("form.New returned error: %v", err)
	}
	if validate {
		ctrl.ValidateAll(record)
	}
	renderer, err := html.New(rendererOptions...)
	if err != nil {
		t.Fatalf("html.New returned error: %v", err)
	}
	out, err := renderer.Render(context.Background(), render.BuildFormView(ctrl, record), options)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, output string, snippets ...string) {
	t.Helper()
	for _, snippet := range snippets {
		if !strings.Contains(output, snippet) {
			t.Fatalf("expected output to contain %q\n%s", snippet, output)
		}
	}
}

func TestRenderContactForm(t *testing.T) {
	out := renderContact(t, contact.InitialData(), false, render.RenderOptions{Action: "/contact"})

	assertContains(t, out,
		`<form class="variable-height-rows" action="/contact" method="POST" novalidate>`,
		`<div class="col-sm-6 col-md-3">`,
		`<div class="form-group">`,
		`<label for="firstName_control" class="form-label">First Name *</label>`,
		`<input id="firstName_control" name="firstName" class="form-control" type="text" value="">`,
		`placeholder="111-222-3333"`,
		`<select id="phoneType_control" name="phoneType" class="form-control">`,
		`<option value="-1" selected>Select...</option>`,
		`<option value="3">Cell</option>`,
		`<div class="checkbox">`,
		`<input id="subscribeMe_control" name="subscribeMe" type="checkbox" value="true">`,
		`<div class="help-block" style="display: none">`,
		`<span class="tooltip-icon" title="US 10 digit phone number">?</span>`,
		`<button type="submit" class="btn btn-primary">Submit</button>`,
	)
	if n := strings.Count(out, `title="US 10 digit phone number"`); n != 1 {
		t.Fatalf("expected the tooltip title once, found %d\n%s", n, out)
	}
	if strings.Contains(out, "has-error") {
		t.Fatalf("untouched form must not show errors\n%s", out)
	}
}

func TestRenderShowsValidationMessages(t *testing.T) {
	record := contact.InitialData().With("email", "a@b.com")
	out := renderContact(t, record, true, render.RenderOptions{})

	assertContains(t, out,
		`<div class="form-group has-error">`,
		`<span>Required field</span>`,
		`<span>Field required</span>`,
		`value="a@b.com"`,
	)
}

func TestRenderEscapesValuesAndServerErrors(t *testing.T) {
	record := contact.ValidData().With("firstName", `"><script>alert(1)</script>`)
	out := renderContact(t, record, false, render.RenderOptions{
		Method:      "put",
		SubmitLabel: "Send",
		Hidden:      []render.HiddenField{render.CSRFToken("_csrf", "tok")},
		Errors:      map[string][]string{"email": {"Email already registered"}},
		FormErrors:  []string{"Try again <later>"},
	})

	if strings.Contains(out, "<script>") {
		t.Fatalf("record value was not escaped\n%s", out)
	}
	assertContains(t, out,
		`method="PUT"`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<p>Try again &lt;later&gt;</p>`,
		`<span>Email already registered</span>`,
		`Send</button>`,
	)
}

func TestRenderSanitizesHookMarkup(t *testing.T) {
	fields := []model.Field{{
		Name: "bio",
		Type: model.FieldTypeString,
		Label: model.Label{Renderer: model.LabelRendererFunc(func(model.Field, model.Record) string {
			return `<label for="bio_control" onclick="steal()">Bio</label><script>alert(1)</script>`
		})},
		Control: model.Control{Tag: model.TagTextarea},
		Tooltip: model.TooltipRendererFunc(func(model.Field, model.Record) string {
			return `<span class="tip" title="About you">?</span>`
		}),
	}}
	ctrl, err := form.New(fields)
	if err != nil {
		t.Fatalf("form.New returned error: %v", err)
	}
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("html.New returned error: %v", err)
	}
	out, err := renderer.Render(context.Background(), render.BuildFormView(ctrl, model.Record{"bio": "hi"}), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	text := string(out)

	if strings.Contains(text, "<script") || strings.Contains(text, "onclick") {
		t.Fatalf("hook markup was not sanitized\n%s", text)
	}
	if n := strings.Count(text, `title=`); n != 1 {
		t.Fatalf("expected a single title attribute, found %d\n%s", n, text)
	}
	assertContains(t, text,
		`<label for="bio_control">Bio</label>`,
		`<span class="tip" title="About you">?</span>`,
		`<textarea id="bio_control" name="bio" class="form-control">hi</textarea>`,
	)
}

func TestTemplatesOverride(t *testing.T) {
	custom := fstest.MapFS{
		"form.tpl": {Data: []byte(`{% for field in form.fields %}[{{ field.name }}]{% endfor %}`)},
	}
	out := renderContact(t, contact.InitialData(), false, render.RenderOptions{}, html.WithTemplatesFS(custom))
	if out != "[firstName][lastName][phone][phoneType][email][confirmEmail][subscribeMe]" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTemplatesDirFallsBackToEmbedded(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "messages.tpl"), []byte(`<ul class="errors">{% for m in field.messages %}<li>{{ m }}</li>{% endfor %}</ul>`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	out := renderContact(t, contact.InitialData(), true, render.RenderOptions{}, html.WithTemplatesDir(dir))
	assertContains(t, out, `<ul class="errors"><li>Required field</li></ul>`, `<form class="variable-height-rows"`)
}

func TestTemplatesDirWithFilter(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "messages.tpl"), []byte(`{% for m in field.messages %}<b>{{ m|ezform_upper_test }}</b>{% endfor %}`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	upper := func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s), nil
	}

	out := renderContact(t, contact.InitialData(), true, render.RenderOptions{},
		html.WithTemplatesDir(dir), html.WithFilter("ezform_upper_test", upper))
	assertContains(t, out, `<b>REQUIRED FIELD</b>`, `<button type="submit"`)

	// a second renderer may register the same filter again
	if _, err := html.New(html.WithFilter("ezform_upper_test", upper)); err != nil {
		t.Fatalf("html.New with repeated filter: %v", err)
	}
	if _, err := html.New(html.WithFilter("escape", upper)); err == nil {
		t.Fatalf("expected error when shadowing a built-in filter")
	}
}

func TestRenderHonoursContext(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("html.New returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, render.FormView{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
	if renderer.Name() != "html" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected renderer metadata")
	}
}
