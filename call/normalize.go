package call

import (
	"log/slog"

	"github.com/ardnew/tally/log"
)

// config holds normalization options.
type config struct {
	env    *Env
	logger log.Logger
	args   Args
}

// Option configures normalization behavior.
type Option func(*config)

// WithArgs supplies extra arguments shared by every spec in the call.
// Extras merge into each spec's trailing keyword map, overwriting
// same-named keys.
func WithArgs(args Args) Option {
	return func(c *config) {
		c.args = args
	}
}

// WithEnv sets the registry that deferred calls resolve names against.
// The default is [Builtin].
func WithEnv(env *Env) Option {
	return func(c *config) {
		c.env = env
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// makeConfig builds an effective config from defaults and options.
func makeConfig(opts ...Option) *config {
	cfg := &config{}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.env == nil {
		cfg.env = Builtin()
	}

	return cfg
}

// Normalize converts an ordered slice of call specs into a [List] of
// deferred calls. All errors surface synchronously; one bad spec fails
// the whole batch.
//
// Deprecated: construct [Deferred] values directly with [Defer] or
// [DeferFunc] and collect them with [ListOf]. Normalize remains for
// callers migrating from positional spec lists.
func Normalize(specs []Spec, opts ...Option) (*List, error) {
	warnDeprecated()

	return normalize(specs, makeConfig(opts...))
}

// normalize is the shared entry point for Normalize and the legacy
// adapter. It does not emit the deprecation notice.
func normalize(specs []Spec, cfg *config) (*List, error) {
	entries := make([]*Deferred, 0, len(specs))
	haveName := false

	for i, spec := range specs {
		d, err := normalizeSpec(spec, cfg)
		if err != nil {
			return nil, WrapError(err).
				With(slog.Int("position", i+1))
		}

		if d.named {
			haveName = true
		}

		entries = append(entries, d)
	}

	list := &List{
		entries:  entries,
		haveName: haveName,
	}

	synthesizeNames(list)

	cfg.logger.Trace("normalized specs",
		slog.Int("count", list.Len()),
		slog.Bool("have_name", list.HaveName()),
	)

	return list, nil
}

// normalizeSpec converts a single spec into a deferred call.
func normalizeSpec(spec Spec, cfg *config) (*Deferred, error) {
	if !spec.valid() {
		if spec.kind == specName || spec.kind == specText {
			return nil, ErrEmptySpec.
				With(slog.String("kind", spec.kind.String()))
		}

		return nil, ErrInvalidInput.
			With(
				slog.String("kind", spec.kind.String()),
				slog.String("type", typeName(spec.fn)),
			)
	}

	if spec.kind == specFunc {
		return &Deferred{
			fn:     spec.fn,
			env:    cfg.env,
			extras: cfg.args,
			name:   spec.name,
			named:  spec.name != "",
		}, nil
	}

	e, err := compileSpec(spec.text, cfg.args)
	if err != nil {
		return nil, err
	}

	cfg.logger.Trace("compiled spec",
		slog.String("spec", spec.text),
		slog.String("source", e.source),
		slog.String("head", e.head),
	)

	return &Deferred{
		program: e.program,
		env:     cfg.env,
		extras:  cfg.args,
		name:    spec.name,
		source:  e.source,
		head:    e.head,
		named:   spec.name != "",
	}, nil
}
