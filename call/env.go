package call

// This file defines the built-in registry environment available to all
// deferred calls. The environment is lazily initialized once per process
// via envCache and cloned on every access so callers may extend the
// returned registry without affecting the shared cache.
//
// Built-in names can be shadowed with Env.Define.

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	envCacheOnce sync.Once
	envCache     map[string]any
)

// makeEnvCache returns a clone of the lazily-initialized, process-scoped
// registry containing built-in summary functions. The returned map can be
// safely mutated by the caller without affecting the shared cache.
func makeEnvCache() map[string]any {
	envCacheOnce.Do(func() {
		envCache = map[string]any{
			// Counting and selection.
			"count":    Func(sizeCount),
			"distinct": Func(sizeDistinct),
			"first":    Func(pickFirst),
			"last":     Func(pickLast),

			// Arithmetic summaries.
			"min":     Func(foldMin),
			"max":     Func(foldMax),
			"mean":    Func(foldMean),
			"median":  Func(foldMedian),
			"sum":     Func(foldSum),
			"product": Func(foldProduct),
			"span":    Func(foldSpan),

			// Statistical summaries (member-accessor call heads).
			"stat": map[string]any{
				"sd":       Func(statSD),
				"variance": Func(statVariance),
				"quantile": Func(statQuantile),
			},

			// Delimited string folding via mung.
			"join": Func(joinColumn),
		}
	})

	return maps.Clone(envCache)
}

// Env is the lookup registry that deferred calls resolve names against.
// The zero value is empty; most callers start from [Builtin].
type Env struct {
	vars map[string]any
}

// Builtin returns a registry populated with the built-in summary functions.
// Each call returns an independent copy.
func Builtin() *Env {
	return &Env{vars: makeEnvCache()}
}

// NewEnv returns an empty registry.
func NewEnv() *Env {
	return &Env{vars: map[string]any{}}
}

// Define registers a value under name, shadowing any existing entry.
// A dotted name (e.g. "stat.mad") registers into the nested namespace,
// creating intermediate maps as needed.
func (e *Env) Define(name string, value any) {
	if e.vars == nil {
		e.vars = map[string]any{}
	}

	segments := strings.Split(name, ".")
	current := e.vars

	for _, seg := range segments[:len(segments)-1] {
		// Nested namespace maps may be shared with the builtin cache,
		// so they are cloned before mutation.
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
		} else {
			next = maps.Clone(next)
		}

		current[seg] = next
		current = next
	}

	current[segments[len(segments)-1]] = value
}

// Lookup resolves a dot-separated path in the registry.
func (e *Env) Lookup(path string) (any, bool) {
	if e == nil || e.vars == nil || path == "" {
		return nil, false
	}

	var current any = e.vars

	for _, seg := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Names returns the sorted, fully-qualified names of every registered
// function, with nested namespaces flattened to dotted paths.
// This is useful for code completion and introspection.
func (e *Env) Names() []string {
	if e == nil || e.vars == nil {
		return nil
	}

	var names []string

	collectNames(e.vars, "", &names)
	slices.Sort(names)

	return names
}

// collectNames recursively flattens registry keys to dotted paths.
func collectNames(m map[string]any, prefix string, names *[]string) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		if nested, ok := v.(map[string]any); ok {
			collectNames(nested, path, names)
		} else {
			*names = append(*names, path)
		}
	}
}

// clone returns a mutable copy of the registry map for program execution.
// Nested namespace maps are shared; they are never mutated at runtime.
func (e *Env) clone() map[string]any {
	if e == nil || e.vars == nil {
		return map[string]any{}
	}

	return maps.Clone(e.vars)
}

// ---------------------------------------------------------------------------
// Counting and selection
// ---------------------------------------------------------------------------

func sizeCount(subject any, _ ...map[string]any) (any, error) {
	return len(toSlice(subject)), nil
}

func sizeDistinct(subject any, _ ...map[string]any) (any, error) {
	seen := make(map[string]struct{})

	for _, s := range toStrings(subject) {
		seen[s] = struct{}{}
	}

	return len(seen), nil
}

func pickFirst(subject any, _ ...map[string]any) (any, error) {
	items := toSlice(subject)
	if len(items) == 0 {
		return nil, ErrInvalidInput.
			With(slog.String("issue", "empty column"))
	}

	return items[0], nil
}

func pickLast(subject any, _ ...map[string]any) (any, error) {
	items := toSlice(subject)
	if len(items) == 0 {
		return nil, ErrInvalidInput.
			With(slog.String("issue", "empty column"))
	}

	return items[len(items)-1], nil
}

// ---------------------------------------------------------------------------
// Arithmetic summaries
// ---------------------------------------------------------------------------

func foldMin(subject any, _ ...map[string]any) (any, error) {
	col, err := numericColumn(subject)
	if err != nil {
		return nil, err
	}

	return slices.Min(col), nil
}

func foldMax(subject any, _ ...map[string]any) (any, error) {
	col, err := numericColumn(subject)
	if err != nil {
		return nil, err
	}

	return slices.Max(col), nil
}

// foldMean computes the arithmetic mean. The "trim" option (fraction in
// [0, 0.5)) drops that share of sorted values from each end first.
func foldMean(subject any, opts ...map[string]any) (any, error) {
	col, err := numericColumn(subject)
	if err != nil {
		return nil, err
	}

	trim := optFloat(opts, "trim", 0)
	if trim > 0 {
		col = trimmed(col, trim)
		if len(col) == 0 {
			return nil, ErrInvalidInput.
				With(slog.String("issue", "trim removed every value"))
		}
	}

	var sum float64
	for _, v := range col {
		sum += v
	}

	return sum / float64(len(col)), nil
}

func foldMedian(subject any, _ ...map[string]any) (any, error) {
	col, err := numericColumn(subject)
	if err != nil {
		return nil, err
	}

	return quantile(col, 0.5), nil
}

func foldSum(subject any, _ ...map[string]any) (any, error) {
	col, err := toFloats(subject)
	if err != nil {
		return nil, err
	}

	var sum float64
	for _, v := range col {
		sum += v
	}

	return sum, nil
}

func foldProduct(subject any, _ ...map[string]any) (any, error) {
	col, err := toFloats(subject)
	if err != nil {
		return nil, err
	}

	product := 1.0
	for _, v := range col {
		product *= v
	}

	return product, nil
}

func foldSpan(subject any, _ ...map[string]any) (any, error) {
	col, err := numericColumn(subject)
	if err != nil {
		return nil, err
	}

	return slices.Max(col) - slices.Min(col), nil
}

// ---------------------------------------------------------------------------
// Statistical summaries
// ---------------------------------------------------------------------------

func statVariance(subject any, _ ...map[string]any) (any, error) {
	col, err := numericColumn(subject)
	if err != nil {
		return nil, err
	}

	if len(col) < 2 {
		return nil, ErrInvalidInput.
			With(slog.String("issue", "variance requires at least two values"))
	}

	var sum float64
	for _, v := range col {
		sum += v
	}

	mean := sum / float64(len(col))

	var ss float64

	for _, v := range col {
		d := v - mean
		ss += d * d
	}

	// Sample variance (n-1 denominator).
	return ss / float64(len(col)-1), nil
}

func statSD(subject any, opts ...map[string]any) (any, error) {
	variance, err := statVariance(subject, opts...)
	if err != nil {
		return nil, err
	}

	v, _ := variance.(float64)

	return math.Sqrt(v), nil
}

// statQuantile computes the quantile given by option "p" (default 0.5)
// using linear interpolation between order statistics.
func statQuantile(subject any, opts ...map[string]any) (any, error) {
	col, err := numericColumn(subject)
	if err != nil {
		return nil, err
	}

	p := optFloat(opts, "p", 0.5)
	if p < 0 || p > 1 {
		return nil, ErrInvalidInput.
			With(slog.Float64("p", p)).
			With(slog.String("issue", "quantile probability out of range"))
	}

	return quantile(col, p), nil
}

// quantile interpolates between order statistics of an unsorted column.
func quantile(col []float64, p float64) float64 {
	sorted := make([]float64, len(col))
	copy(sorted, col)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))

	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)

	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// trimmed drops the given fraction of sorted values from each end.
func trimmed(col []float64, trim float64) []float64 {
	if trim >= 0.5 {
		return nil
	}

	sorted := make([]float64, len(col))
	copy(sorted, col)
	sort.Float64s(sorted)

	drop := int(math.Floor(float64(len(sorted)) * trim))

	return sorted[drop : len(sorted)-drop]
}

// numericColumn converts and validates a non-empty numeric subject.
func numericColumn(subject any) ([]float64, error) {
	col, err := toFloats(subject)
	if err != nil {
		return nil, err
	}

	if len(col) == 0 {
		return nil, ErrInvalidInput.
			With(slog.String("issue", "empty column"))
	}

	return col, nil
}

// ---------------------------------------------------------------------------
// Delimited string folding (mung)
// ---------------------------------------------------------------------------

// joinColumn folds a column into a single delimited string. The "sep"
// option sets the delimiter (default ",").
func joinColumn(subject any, opts ...map[string]any) (any, error) {
	items := toStrings(subject)
	if len(items) == 0 {
		return "", nil
	}

	sep := optString(opts, "sep", ",")

	// Suffix items append in argument order; prefix items would prepend
	// one at a time and reverse everything before the subject.
	return mung.Make(
		mung.WithSubjectItems(items[0]),
		mung.WithDelim(sep),
		mung.WithSuffixItems(items[1:]...),
	).String(), nil
}
