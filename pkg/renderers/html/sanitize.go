package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	hookPolicyOnce sync.Once
	hookPolicy     *bluemonday.Policy
)

// HookPolicy is the default policy applied to render hook output: user
// generated content rules plus the form elements custom controls need.
func HookPolicy() *bluemonday.Policy {
	hookPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("span", "label", "input", "select", "option", "textarea", "button")
		// title is already global through the standard attributes
		policy.AllowAttrs("class", "role", "aria-label", "aria-hidden").Globally()
		policy.AllowDataAttributes()
		policy.AllowAttrs("for").OnElements("label")
		policy.AllowAttrs(
			"name", "type", "value", "placeholder", "checked", "disabled", "readonly",
			"min", "max", "step", "maxlength", "minlength", "pattern", "required",
		).OnElements("input")
		policy.AllowAttrs("name", "multiple", "disabled", "required").OnElements("select")
		policy.AllowAttrs("value", "selected").OnElements("option")
		policy.AllowAttrs("name", "rows", "cols", "placeholder", "maxlength", "disabled", "readonly").OnElements("textarea")
		policy.AllowAttrs("type").OnElements("button")
		hookPolicy = policy
	})
	return hookPolicy
}

func sanitize(policy *bluemonday.Policy, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(trimmed))
}
