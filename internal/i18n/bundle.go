package i18n

import (
	"fmt"
	"strings"
)

// Namespace partitions translation bundles by UI surface.
type Namespace string

const (
	NamespaceAuth                 Namespace = "auth"
	NamespaceRegister             Namespace = "register"
	NamespaceVerifyEmail          Namespace = "verify-email"
	NamespaceResetPassword        Namespace = "reset-password"
	NamespaceRequestPasswordReset Namespace = "request-password-reset"
	NamespaceDashboard            Namespace = "dashboard"
)

func Namespaces() []Namespace {
	return []Namespace{
		NamespaceAuth,
		NamespaceRegister,
		NamespaceVerifyEmail,
		NamespaceResetPassword,
		NamespaceRequestPasswordReset,
		NamespaceDashboard,
	}
}

func ParseNamespace(value string) (Namespace, bool) {
	for _, ns := range Namespaces() {
		if string(ns) == value {
			return ns, true
		}
	}
	return "", false
}

// Bundle is the decoded content of one (language, namespace) translation file.
type Bundle map[string]any

// Result is the outcome of a lookup: either the resolved text or the
// key path that could not be resolved.
type Result struct {
	text     string
	path     string
	resolved bool
}

func Resolved(text string) Result {
	return Result{text: text, resolved: true}
}

func Missing(path string) Result {
	return Result{path: path}
}

func (r Result) IsResolved() bool { return r.resolved }

// Path is the unresolved key path; empty for resolved results.
func (r Result) Path() string { return r.path }

// String renders the result for display: the text, or the key path itself.
func (r Result) String() string {
	if r.resolved {
		return r.text
	}
	return r.path
}

// Format renders the result and substitutes fmt verbs when it resolved.
func (r Result) Format(args ...any) string {
	if !r.resolved || len(args) == 0 {
		return r.String()
	}
	return fmt.Sprintf(r.text, args...)
}

// Resolve walks a dotted key path through the bundle. Any missing segment, or
// a terminal value that is not a string, yields Missing(path).
func Resolve(b Bundle, path string) Result {
	var current any = map[string]any(b)
	for _, segment := range strings.Split(path, ".") {
		var node map[string]any
		switch typed := current.(type) {
		case map[string]any:
			node = typed
		case Bundle:
			node = typed
		default:
			return Missing(path)
		}
		next, ok := node[segment]
		if !ok {
			return Missing(path)
		}
		current = next
	}

	text, ok := current.(string)
	if !ok {
		return Missing(path)
	}
	return Resolved(text)
}
