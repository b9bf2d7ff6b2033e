// Package call normalizes heterogeneous call specifications into a uniform,
// named, ordered collection of deferred calls. All expression parsing,
// compilation, and evaluation is delegated to expr-lang.
//
// # Specs
//
// A call spec describes one summary operation in any of three shapes:
//
//   - Name reference: a string naming a function to resolve in an [Env]
//     (constructor [Name], e.g. Name("mean"))
//   - Function value: an invocable Go function (constructor [Fn])
//   - Partial call expression: expr-lang source where the reserved
//     placeholder identifier "_" (alias "it") marks the subject slot
//     (constructor [Text], e.g. Text("mean(_, {trim: 0.1})"))
//
// Explicit display names attach with [Spec.As]. [Normalize] converts an
// ordered slice of specs into a [List] of [Deferred] entries; every entry
// ends up with a non-empty name, synthesized from the call head or function
// symbol when the caller supplied none.
//
// # Normalization
//
// Each spec is parsed into an expr-lang AST and rewritten:
//
//   - Closure literals and pointer-shorthand mini-lambdas are rejected
//   - Bare identifiers and dotted accessors (e.g. stat.sd) are wrapped into
//     a call on the placeholder
//   - Extra arguments supplied with [WithArgs] merge into the call's
//     trailing keyword map, overwriting same-named keys
//
// The rewritten source compiles eagerly with undefined names permitted, so
// name resolution is deferred until [Deferred.Invoke] binds the subject and
// runs the program against the registry env.
//
// # Example
//
//	list, err := call.Normalize(
//	    []call.Spec{
//	        call.Name("mean"),
//	        call.Text("stat.quantile(_, {p: 0.25})").As("q1"),
//	    },
//	    call.WithArgs(call.Args{{Name: "trim", Value: 0.1}}),
//	)
//	if err != nil {
//	    return err
//	}
//	for name, d := range list.All() {
//	    result, err := d.Invoke(ctx, column)
//	    ...
//	}
//
// # Resolution
//
// Dynamic name lookup is an explicit registry ([Env]), not reflection over
// caller scopes. The built-in registry provides common column summaries
// (count, distinct, min, max, mean, median, sum, ...) plus a nested stat
// namespace; user functions register with [Env.Define].
package call
