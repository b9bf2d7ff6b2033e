package call

import (
	"errors"
	"math"
	"slices"
	"testing"
)

// Registry Tests
// ============================================================================

// TestBuiltin_Names verifies the built-in registry contents.
func TestBuiltin_Names(t *testing.T) {
	t.Parallel()

	want := []string{
		"count", "distinct", "first", "join", "last",
		"max", "mean", "median", "min", "product", "span",
		"stat.quantile", "stat.sd", "stat.variance", "sum",
	}

	got := Builtin().Names()

	if !slices.Equal(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

// TestBuiltin_Independent verifies each Builtin call returns a copy.
func TestBuiltin_Independent(t *testing.T) {
	t.Parallel()

	a := Builtin()
	a.Define("custom", Func(sizeCount))
	a.Define("stat.mad", Func(sizeCount))

	b := Builtin()

	if _, ok := b.Lookup("custom"); ok {
		t.Error("definition leaked into a fresh registry")
	}

	if _, ok := b.Lookup("stat.mad"); ok {
		t.Error("nested definition leaked into a fresh registry")
	}
}

// TestEnv_DefineLookup verifies dotted definition and resolution.
func TestEnv_DefineLookup(t *testing.T) {
	t.Parallel()

	env := NewEnv()
	env.Define("alpha", 1)
	env.Define("nested.deep.value", 2)

	tests := []struct {
		want   any
		name   string
		path   string
		wantOK bool
	}{
		{
			name:   "top level",
			path:   "alpha",
			want:   1,
			wantOK: true,
		},
		{
			name:   "nested path",
			path:   "nested.deep.value",
			want:   2,
			wantOK: true,
		},
		{
			name:   "missing name",
			path:   "beta",
			wantOK: false,
		},
		{
			name:   "missing nested",
			path:   "nested.deep.other",
			wantOK: false,
		},
		{
			name:   "path through non-namespace",
			path:   "alpha.beta",
			wantOK: false,
		},
		{
			name:   "empty path",
			path:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := env.Lookup(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}

			if ok && got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEnv_ZeroValue verifies nil-safety of the zero registry.
func TestEnv_ZeroValue(t *testing.T) {
	t.Parallel()

	var env *Env

	if _, ok := env.Lookup("min"); ok {
		t.Error("nil registry must resolve nothing")
	}

	if names := env.Names(); names != nil {
		t.Errorf("nil registry names = %v, want nil", names)
	}
}

// Summary Function Tests
// ============================================================================

// TestSummaries_Selection verifies counting and selection built-ins.
func TestSummaries_Selection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fn      Func
		subject any
		want    any
		name    string
	}{
		{
			name:    "count",
			fn:      sizeCount,
			subject: []float64{1, 2, 3},
			want:    3,
		},
		{
			name:    "count scalar wraps",
			fn:      sizeCount,
			subject: 7,
			want:    1,
		},
		{
			name:    "distinct",
			fn:      sizeDistinct,
			subject: []string{"a", "b", "a", "c", "b"},
			want:    3,
		},
		{
			name:    "distinct mixed formatting",
			fn:      sizeDistinct,
			subject: []any{1, "1", 2},
			want:    2,
		},
		{
			name:    "first",
			fn:      pickFirst,
			subject: []string{"x", "y"},
			want:    "x",
		},
		{
			name:    "last",
			fn:      pickLast,
			subject: []string{"x", "y"},
			want:    "y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.fn(tt.subject)
			if err != nil {
				t.Fatalf("summary error: %v", err)
			}

			if got != tt.want {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSummaries_Arithmetic verifies numeric folds over mixed input shapes.
func TestSummaries_Arithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fn      Func
		subject any
		want    float64
		name    string
	}{
		{
			name:    "sum of ints",
			fn:      foldSum,
			subject: []int{1, 2, 3},
			want:    6,
		},
		{
			name:    "sum of numeric strings",
			fn:      foldSum,
			subject: []string{"1.5", "2.5"},
			want:    4,
		},
		{
			name:    "product",
			fn:      foldProduct,
			subject: []float64{2, 3, 4},
			want:    24,
		},
		{
			name:    "median even",
			fn:      foldMedian,
			subject: []float64{1, 2, 3, 4},
			want:    2.5,
		},
		{
			name:    "median odd",
			fn:      foldMedian,
			subject: []float64{3, 1, 2},
			want:    2,
		},
		{
			name:    "span",
			fn:      foldSpan,
			subject: []float64{-1, 4, 2},
			want:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.fn(tt.subject)
			if err != nil {
				t.Fatalf("summary error: %v", err)
			}

			if got != tt.want {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSummaries_Errors verifies error classification for bad subjects.
func TestSummaries_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fn      Func
		subject any
		name    string
	}{
		{
			name:    "min empty",
			fn:      foldMin,
			subject: []float64{},
		},
		{
			name:    "first empty",
			fn:      pickFirst,
			subject: []any{},
		},
		{
			name:    "mean non-numeric",
			fn:      foldMean,
			subject: []string{"abc"},
		},
		{
			name:    "variance single value",
			fn:      statVariance,
			subject: []float64{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.fn(tt.subject)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want %v", err, ErrInvalidInput)
			}
		})
	}
}

// TestSummaries_TrimmedMean verifies the trim keyword of mean.
func TestSummaries_TrimmedMean(t *testing.T) {
	t.Parallel()

	column := []float64{100, 1, 2, 3, 4, 5, 6, 7, 8, -100}

	got, err := foldMean(column, map[string]any{"trim": 0.1})
	if err != nil {
		t.Fatalf("mean error: %v", err)
	}

	// Outliers dropped from each sorted end.
	if got != float64(4.5) {
		t.Errorf("trimmed mean = %v, want 4.5", got)
	}
}

// TestSummaries_Quantile verifies order-statistic interpolation.
func TestSummaries_Quantile(t *testing.T) {
	t.Parallel()

	column := []float64{5, 1, 3, 2, 4}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{name: "minimum", p: 0, want: 1},
		{name: "lower quartile", p: 0.25, want: 2},
		{name: "median", p: 0.5, want: 3},
		{name: "interpolated", p: 0.375, want: 2.5},
		{name: "maximum", p: 1, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := statQuantile(column, map[string]any{"p": tt.p})
			if err != nil {
				t.Fatalf("quantile error: %v", err)
			}

			if got != tt.want {
				t.Errorf("quantile(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if _, err := statQuantile(column, map[string]any{"p": 1.5}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("out-of-range p: error = %v, want %v", err, ErrInvalidInput)
	}
}

// TestSummaries_Deviation verifies sample variance and deviation agree.
func TestSummaries_Deviation(t *testing.T) {
	t.Parallel()

	column := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	variance, err := statVariance(column)
	if err != nil {
		t.Fatalf("variance error: %v", err)
	}

	sd, err := statSD(column)
	if err != nil {
		t.Fatalf("sd error: %v", err)
	}

	v, _ := variance.(float64)

	s, _ := sd.(float64)
	if math.Abs(s-math.Sqrt(v)) > 1e-12 {
		t.Errorf("sd = %v, want sqrt(%v)", s, v)
	}
}

// TestSummaries_Join verifies delimited string folding.
func TestSummaries_Join(t *testing.T) {
	t.Parallel()

	tests := []struct {
		subject any
		opts    map[string]any
		name    string
		want    string
	}{
		{
			name:    "default delimiter",
			subject: []string{"a", "b", "c"},
			want:    "a,b,c",
		},
		{
			name:    "custom delimiter",
			subject: []string{"a", "b"},
			opts:    map[string]any{"sep": " | "},
			want:    "a | b",
		},
		{
			name:    "numeric column",
			subject: []float64{1.5, 2},
			opts:    map[string]any{"sep": "-"},
			want:    "1.5-2",
		},
		{
			name:    "single element",
			subject: []string{"only"},
			want:    "only",
		},
		{
			name:    "empty column",
			subject: []string{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got any

			var err error

			if tt.opts != nil {
				got, err = joinColumn(tt.subject, tt.opts)
			} else {
				got, err = joinColumn(tt.subject)
			}

			if err != nil {
				t.Fatalf("join error: %v", err)
			}

			if got != tt.want {
				t.Errorf("result = %q, want %q", got, tt.want)
			}
		})
	}
}
