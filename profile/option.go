//go:build pprof

package profile

// Option transforms a plan, returning the modified copy.
type Option func(plan) plan

// apply folds opts over p in order.
func apply(p plan, opts ...Option) plan {
	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// makePlan builds a plan from the provided options.
func makePlan(opts ...Option) plan {
	var p plan

	return apply(p, opts...)
}
