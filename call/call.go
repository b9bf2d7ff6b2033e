package call

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/expr-lang/expr/vm"
)

// Deferred is a single normalized call awaiting a subject. Entries are
// immutable after normalization; Invoke may run concurrently.
type Deferred struct {
	program *vm.Program // compiled expression (expression-backed)
	env     *Env
	fn      any // function value (function-backed)
	extras  Args
	name    string
	source  string
	head    string // call-head label for name synthesis
	named   bool   // name was given explicitly
}

// Defer normalizes a single partial call expression into a [Deferred].
// This is the non-deprecated construction path; it applies the same
// rewriting as [Normalize] but accepts exactly one expression source.
func Defer(source string, opts ...Option) (*Deferred, error) {
	cfg := makeConfig(opts...)

	return normalizeSpec(Text(source), cfg)
}

// DeferFunc wraps an invocable Go function into a [Deferred].
func DeferFunc(fn any, opts ...Option) (*Deferred, error) {
	cfg := makeConfig(opts...)

	return normalizeSpec(Fn(fn), cfg)
}

// As attaches an explicit display name, returning a renamed copy.
func (d *Deferred) As(name string) *Deferred {
	clone := *d
	clone.name = name
	clone.named = true

	return &clone
}

// Name returns the entry's display name.
func (d *Deferred) Name() string { return d.name }

// Source returns the normalized expression source, or "" for
// function-backed entries.
func (d *Deferred) Source() string { return d.source }

// IsFunc reports whether the entry is function-backed.
func (d *Deferred) IsFunc() bool { return d.fn != nil }

// Invoke applies the deferred call to a subject column.
// Expression-backed entries run the compiled program with the placeholder
// bound in a clone of the registry env; function-backed entries call the
// function directly, appending recorded extras.
func (d *Deferred) Invoke(ctx context.Context, subject any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("name", d.name))
	}

	if d.fn != nil {
		return d.invokeFunc(subject)
	}

	env := d.env.clone()
	env[Placeholder] = subject
	env[PlaceholderAlias] = subject

	result, err := vm.Run(d.program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(
				slog.String("name", d.name),
				slog.String("source", d.source),
			)
	}

	return result, nil
}

// invokeFunc dispatches a function-backed entry.
func (d *Deferred) invokeFunc(subject any) (any, error) {
	if fn, ok := d.fn.(Func); ok {
		if len(d.extras) > 0 {
			return fn(subject, d.extras.Map())
		}

		return fn(subject)
	}

	args := []any{subject}
	if len(d.extras) > 0 {
		args = append(args, d.extras.Map())
	}

	return reflectCall(d.fn, d.name, args...)
}

// reflectCall invokes an arbitrary function value with the given arguments.
// Surplus arguments a fixed-arity function cannot accept are dropped; a
// trailing error result is separated from the returned value.
func reflectCall(fn any, name string, args ...any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrExprEvaluate.
				Wrap(fmt.Errorf("%v", r)).
				With(slog.String("name", name))
		}
	}()

	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	if ft.Kind() != reflect.Func {
		return nil, ErrInvalidInput.
			With(
				slog.String("name", name),
				slog.String("type", typeName(fn)),
			)
	}

	if !ft.IsVariadic() && len(args) > ft.NumIn() {
		args = args[:ft.NumIn()]
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(argType(ft, i))

			continue
		}

		av := reflect.ValueOf(arg)
		if pt := argType(ft, i); av.Type() != pt && av.Type().ConvertibleTo(pt) {
			av = av.Convert(pt)
		}

		in[i] = av
	}

	out := fv.Call(in)

	return splitResults(out, name)
}

// argType returns the declared type of parameter i, unrolling variadics.
func argType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}

	return ft.In(i)
}

// splitResults separates a trailing error from reflected return values.
func splitResults(out []reflect.Value, name string) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}

	last := out[len(out)-1]
	if last.Type() == reflect.TypeOf((*error)(nil)).Elem() {
		if !last.IsNil() {
			callErr, ok := last.Interface().(error)
			if ok {
				return nil, ErrExprEvaluate.Wrap(callErr).
					With(slog.String("name", name))
			}
		}

		out = out[:len(out)-1]
	}

	if len(out) == 0 {
		return nil, nil
	}

	return out[0].Interface(), nil
}
