package call

import (
	"log/slog"
	"reflect"
)

// NormalizeLegacy adapts the permissive legacy input shapes into a [List].
// Accepted shapes:
//
//   - *List: pass-through; with extras, every entry is re-derived with
//     the extras merged
//   - string: a function name resolved eagerly in the lookup env
//   - an invocable Go function value
//   - Spec, []Spec, []string, or []any mixing the above
//
// Anything else fails with ErrInvalidInput. A single bare value
// auto-wraps into a one-element list.
func NormalizeLegacy(spec any, opts ...Option) (*List, error) {
	warnDeprecated()

	cfg := makeConfig(opts...)

	return normalizeLegacy(spec, cfg)
}

func normalizeLegacy(spec any, cfg *config) (*List, error) {
	switch v := spec.(type) {
	case nil:
		return nil, ErrInvalidInput.
			With(slog.String("issue", "nil spec"))

	case *List:
		return rederiveList(v, cfg)

	case Spec:
		return normalize([]Spec{v}, cfg)

	case []Spec:
		return normalize(v, cfg)

	case string:
		d, err := legacyName(v, cfg)
		if err != nil {
			return nil, err
		}

		return buildList(cfg, d), nil

	case []string:
		entries := make([]*Deferred, 0, len(v))

		for i, name := range v {
			d, err := legacyName(name, cfg)
			if err != nil {
				return nil, WrapError(err).
					With(slog.Int("position", i+1))
			}

			entries = append(entries, d)
		}

		return buildList(cfg, entries...), nil

	case []any:
		entries := make([]*Deferred, 0, len(v))

		for i, item := range v {
			d, err := legacyElement(item, cfg)
			if err != nil {
				return nil, WrapError(err).
					With(slog.Int("position", i+1))
			}

			entries = append(entries, d)
		}

		return buildList(cfg, entries...), nil

	default:
		if reflect.ValueOf(spec).Kind() == reflect.Func {
			d, err := normalizeSpec(Fn(spec), cfg)
			if err != nil {
				return nil, err
			}

			return buildList(cfg, d), nil
		}

		return nil, ErrInvalidInput.
			With(slog.String("type", typeName(spec)))
	}
}

// legacyElement adapts one element of a mixed []any spec.
func legacyElement(item any, cfg *config) (*Deferred, error) {
	switch v := item.(type) {
	case string:
		return legacyName(v, cfg)

	case Spec:
		return normalizeSpec(v, cfg)

	case *Deferred:
		return rederive(v, cfg)

	default:
		if item != nil && reflect.ValueOf(item).Kind() == reflect.Func {
			return normalizeSpec(Fn(item), cfg)
		}

		return nil, ErrInvalidInput.
			With(slog.String("type", typeName(item)))
	}
}

// legacyName resolves a name reference eagerly in the lookup env and
// normalizes it as an expression spec. Unresolved or non-callable names
// fail with ErrResolutionFailure.
func legacyName(name string, cfg *config) (*Deferred, error) {
	value, ok := cfg.env.Lookup(name)
	if !ok {
		return nil, ErrResolutionFailure.
			With(slog.String("name", name))
	}

	if reflect.ValueOf(value).Kind() != reflect.Func {
		return nil, ErrResolutionFailure.
			With(
				slog.String("name", name),
				slog.String("issue", "not callable"),
				slog.String("type", typeName(value)),
			)
	}

	return normalizeSpec(Name(name), cfg)
}

// rederiveList re-derives every entry of an existing list, merging the
// configured extras. Without extras the list passes through unchanged.
func rederiveList(list *List, cfg *config) (*List, error) {
	if len(cfg.args) == 0 {
		return list, nil
	}

	entries := make([]*Deferred, 0, list.Len())

	for _, d := range list.entries {
		derived, err := rederive(d, cfg)
		if err != nil {
			return nil, err
		}

		entries = append(entries, derived)
	}

	return &List{
		entries:  entries,
		haveName: list.haveName,
	}, nil
}

// rederive rebuilds one entry with the configured extras merged.
// Expression entries re-merge the keyword map from their normalized
// source; function entries record the extras for invocation.
func rederive(d *Deferred, cfg *config) (*Deferred, error) {
	if len(cfg.args) == 0 {
		return d, nil
	}

	if d.fn != nil {
		clone := *d
		clone.extras = mergeArgs(d.extras, cfg.args)

		return &clone, nil
	}

	e, err := compileSpec(d.source, cfg.args)
	if err != nil {
		return nil, err
	}

	clone := *d
	clone.program = e.program
	clone.source = e.source
	clone.head = e.head
	clone.extras = mergeArgs(d.extras, cfg.args)

	return &clone, nil
}

// mergeArgs merges extras over base, overwriting same-named entries and
// appending the rest in order.
func mergeArgs(base, extras Args) Args {
	merged := make(Args, len(base), len(base)+len(extras))
	copy(merged, base)

	for _, extra := range extras {
		replaced := false

		for i, arg := range merged {
			if arg.Name == extra.Name {
				merged[i] = extra
				replaced = true

				break
			}
		}

		if !replaced {
			merged = append(merged, extra)
		}
	}

	return merged
}

// buildList assembles legacy-derived entries into a list with synthesized
// names. Legacy inputs carry no explicit names, so the name flag is set
// only by entries that already had one (e.g. re-derived *Deferred).
func buildList(cfg *config, entries ...*Deferred) *List {
	haveName := false

	for _, d := range entries {
		if d.named {
			haveName = true

			break
		}
	}

	list := &List{
		entries:  entries,
		haveName: haveName,
	}

	synthesizeNames(list)

	cfg.logger.Trace("normalized legacy spec",
		slog.Int("count", list.Len()),
	)

	return list
}
