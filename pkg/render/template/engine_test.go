package template_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-ezform/pkg/render/template"
)

type greeting struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func newEngine(t *testing.T, options ...template.Option) *template.Engine {
	t.Helper()
	fsys := fstest.MapFS{
		"hello.tpl":  {Data: []byte(`Hello {{ name }}{% for i in items %} [{{ i }}]{% endfor %}`)},
		"escape.tpl": {Data: []byte(`<p>{{ name }}</p>`)},
		"page.tpl":   {Data: []byte(`<main>{% include "part.tpl" %}</main>`)},
		"part.tpl":   {Data: []byte(`<p>{{ name }}</p>`)},
		"shout.tpl":  {Data: []byte(`{{ name|ezform_shout_test }}`)},
	}
	engine, err := template.New(append([]template.Option{template.WithFS(fsys)}, options...)...)
	if err != nil {
		t.Fatalf("template.New returned error: %v", err)
	}
	return engine
}

func TestRenderTemplateUsesJSONNames(t *testing.T) {
	engine := newEngine(t)
	var buf bytes.Buffer

	got, err := engine.RenderTemplate("hello", greeting{Name: "Ada", Items: []string{"a", "b"}}, &buf)
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if want := "Hello Ada [a] [b]"; got != want || buf.String() != want {
		t.Fatalf("render mismatch: got %q, writer %q, want %q", got, buf.String(), want)
	}
}

func TestRenderTemplateEscapes(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("escape.tpl", map[string]any{"name": "<b>x</b>"})
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if want := "<p>&lt;b&gt;x&lt;/b&gt;</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRegisterFilter(t *testing.T) {
	engine := newEngine(t)
	name := "ezform_shout_test"
	if err := engine.RegisterFilter(name, func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s), nil
	}); err != nil {
		t.Fatalf("RegisterFilter returned error: %v", err)
	}
	got, err := engine.RenderTemplate("shout", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if got != "ADA" {
		t.Fatalf("got %q", got)
	}

	if err := engine.RegisterFilter(name, func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return s + "!", nil
	}); err != nil {
		t.Fatalf("re-registering an engine filter returned error: %v", err)
	}
	got, err = engine.RenderTemplate("shout", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if got != "ada!" {
		t.Fatalf("expected replaced filter, got %q", got)
	}

	if err := engine.RegisterFilter("safe", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected built-in filter to be protected")
	}
}

func TestBaseDirShadowsFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.tpl"), []byte(`Hi {{ name }}`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine := newEngine(t, template.WithBaseDir(dir))

	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if got != "Hi Ada" {
		t.Fatalf("expected disk template to win, got %q", got)
	}
}

func TestBaseDirIncludesFallBackToFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "part.tpl"), []byte(`<em>{{ name }}</em>`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine := newEngine(t, template.WithBaseDir(dir))

	got, err := engine.RenderTemplate("page", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if got != "<main><em>Ada</em></main>" {
		t.Fatalf("expected bundle page with disk partial, got %q", got)
	}

	if _, err := template.New(template.WithBaseDir(filepath.Join(dir, "missing"))); err == nil {
		t.Fatalf("expected error for missing base dir")
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := template.New(); err == nil {
		t.Fatalf("expected error without template sources")
	}
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}
