package log

// Option transforms a config, returning the modified copy.
type Option func(config) config

// apply folds opts over cfg in order; later options win.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}
