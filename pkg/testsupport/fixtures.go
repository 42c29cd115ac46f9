// Package testsupport holds fixtures shared by package tests: the contact
// form loaded from its YAML schema, prepared controllers, and small output
// capture helpers.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-ezform/examples/contact"
	"github.com/goliatone/go-ezform/pkg/form"
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/schema"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// ContactForm parses the embedded contact schema and returns its form.
func ContactForm(t *testing.T) schema.Form {
	t.Helper()

	store, err := schema.Parse(contact.SchemaYAML, "contact.yaml")
	if err != nil {
		t.Fatalf("parse contact schema: %v", err)
	}
	f, ok := store.Form("contact")
	if !ok {
		t.Fatalf("contact form missing, ids: %v", store.IDs())
	}
	return f
}

// MustController builds a controller or fails the test.
func MustController(t *testing.T, fields []model.Field, options ...form.Option) *form.Controller {
	t.Helper()

	ctrl, err := form.New(fields, options...)
	if err != nil {
		t.Fatalf("form.New: %v", err)
	}
	return ctrl
}

// AssertContains fails the test when output misses any snippet.
func AssertContains(t *testing.T, output string, snippets ...string) {
	t.Helper()
	for _, snippet := range snippets {
		if !strings.Contains(output, snippet) {
			t.Fatalf("expected output to contain %q\n%s", snippet, output)
		}
	}
}

// CaptureOutput runs fn against a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, fn func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		t.Fatalf("capture output: %v", err)
	}
	return buf.String()
}
