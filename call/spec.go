package call

import (
	"reflect"
	"strings"
)

// Func is the canonical signature for registry summary functions.
// The subject is a column of values; the optional trailing map carries
// keyword arguments (e.g. {trim: 0.1}).
type Func = func(subject any, opts ...map[string]any) (any, error)

// specKind discriminates the three call spec shapes.
type specKind int

const (
	specInvalid specKind = iota
	specName             // name reference resolved in an Env
	specText             // partial call expression with placeholder
	specFunc             // invocable Go function value
)

// String returns a string representation of the spec kind.
func (k specKind) String() string {
	switch k {
	case specName:
		return "name"
	case specText:
		return "expression"
	case specFunc:
		return "function"
	default:
		return "invalid"
	}
}

// Spec is a single call specification accepted by [Normalize].
// The zero value is invalid; construct specs with [Name], [Text], or [Fn].
type Spec struct {
	fn   any
	name string // explicit display name, set by As
	text string
	kind specKind
}

// Name creates a spec referencing a registry function by name.
// Dotted accessor paths (e.g. "stat.sd") are permitted.
func Name(name string) Spec {
	return Spec{kind: specName, text: strings.TrimSpace(name)}
}

// Text creates a spec from a partial call expression in expr-lang syntax.
// The placeholder identifier "_" (alias "it") marks the subject slot.
func Text(source string) Spec {
	return Spec{kind: specText, text: strings.TrimSpace(source)}
}

// Fn creates a spec from an invocable Go function value.
func Fn(fn any) Spec {
	return Spec{kind: specFunc, fn: fn}
}

// As attaches an explicit display name to the spec.
// Explicit names are never overwritten by name synthesis.
func (s Spec) As(name string) Spec {
	s.name = name

	return s
}

// valid reports whether the spec holds usable content for its kind.
func (s Spec) valid() bool {
	switch s.kind {
	case specName, specText:
		return s.text != ""
	case specFunc:
		return s.fn != nil && reflect.ValueOf(s.fn).Kind() == reflect.Func
	default:
		return false
	}
}
