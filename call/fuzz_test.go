package call

import (
	"context"
	"testing"
	"unicode/utf8"
)

// FuzzDefer tests spec normalization with random sources to find edge cases.
func FuzzDefer(f *testing.F) {
	// Seed corpus with known valid and invalid inputs
	f.Add("min")
	f.Add("min(_)")
	f.Add("stat.sd")
	f.Add("mean(_, {trim: 0.1})")
	f.Add("sum(_) / count(_)")
	f.Add("filter(_, # > 2)")
	f.Add("map(_, 1)")
	f.Add("min(it)")
	f.Add(`join(_, {sep: "-"})`)
	f.Add("mean(_")
	f.Add("{{{")
	f.Add("")

	f.Fuzz(func(t *testing.T, source string) {
		// Skip invalid UTF-8
		if !utf8.ValidString(source) {
			t.Skip("invalid UTF-8")
		}

		// Normalization should not panic on any input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("defer panicked on source %q: %v", source, r)
			}
		}()

		d, err := Defer(source)
		if err != nil {
			return
		}

		// A normalized spec must carry a re-parseable source and must not
		// panic when invoked, though evaluation may fail.
		if d.Source() == "" {
			t.Errorf("normalized spec for %q has empty source", source)
		}

		if _, err := Defer(d.Source()); err != nil {
			t.Errorf("normalized source %q does not re-normalize: %v", d.Source(), err)
		}

		_, _ = d.Invoke(context.Background(), []float64{1, 2, 3})
	})
}
