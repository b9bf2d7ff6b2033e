package call

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strconv"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"
)

// globalCache stores normalization results keyed by the combined hash of
// (spec source, extra arguments). Programs compile against the fixed
// builtin registry map with undefined names permitted, so a cached
// program is valid for every registry.
//
//nolint:gochecknoglobals
var globalCache sync.Map

// entry tracks one-time normalization state for a cache key.
type entry struct {
	program *vm.Program
	err     error
	source  string // normalized (rewritten) source
	head    string // call-head label
	once    sync.Once
}

// hashArgs encodes extras using gob and hashes with xxh3.
// Values are reduced to their verbose Go representation first, so any
// argument set hashes deterministically without type registration.
func hashArgs(args Args) (uint64, bool) {
	if len(args) == 0 {
		return 0, true
	}

	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	for _, arg := range args {
		if err := enc.Encode(arg.Name); err != nil {
			return 0, false
		}

		if err := enc.Encode(fmt.Sprintf("%T=%#v", arg.Value, arg.Value)); err != nil {
			return 0, false
		}
	}

	return xxh3.Hash(buf.Bytes()), true
}

// cacheKey combines spec source and extras into a cache key string.
func cacheKey(source string, args Args) (string, bool) {
	argsHash, ok := hashArgs(args)
	if !ok {
		return "", false
	}

	combined := xxh3.Hash([]byte(source)) ^ argsHash

	return strconv.FormatUint(combined, 36), true
}

// compileSpec parses, rewrites, and compiles an expression spec, caching
// the result so identical (source, args) pairs compile once per process.
func compileSpec(source string, args Args) (*entry, error) {
	key, ok := cacheKey(source, args)
	if !ok {
		e := &entry{}
		e.once.Do(func() { normalizeSource(e, source, args) })

		if e.err != nil {
			return nil, e.err
		}

		return e, nil
	}

	value, _ := globalCache.LoadOrStore(key, &entry{})

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrExprCompile
	}

	e.once.Do(func() { normalizeSource(e, source, args) })

	if e.err != nil {
		return nil, e.err
	}

	return e, nil
}

// normalizeSource populates an entry by running the rewrite pipeline.
func normalizeSource(e *entry, source string, args Args) {
	tree, head, err := rewriteSource(source, args)
	if err != nil {
		e.err = err

		return
	}

	rendered := tree.Node.String()

	// Builtins are disabled so every call head resolves through the
	// registry env at run time. The compile env must carry the builtin
	// registry names: with builtins disabled, the checker rejects a call
	// to a builtin-colliding name ("min", "sum", ...) unless the name is
	// overridden by an env member. Undefined-variable allowance covers
	// names a caller-supplied registry adds later.
	program, err := expr.Compile(
		rendered,
		expr.Env(makeEnvCache()),
		expr.AllowUndefinedVariables(),
		expr.DisableAllBuiltins(),
	)
	if err != nil {
		e.err = ErrExprCompile.Wrap(err).
			With(exprAttr(rendered)...)

		return
	}

	e.program = program
	e.source = rendered
	e.head = head
}

// ClearCache removes all cached normalization results.
// This is primarily useful for testing or when memory needs to be
// reclaimed.
func ClearCache() {
	globalCache = sync.Map{}
}
