package repl

import (
	"slices"
	"testing"
)

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "mean", 4, "mean", 0, 4},
		{"dot_separated", "stat.sd", 7, "sd", 5, 7},
		{"after_plus", "1 + su", 6, "su", 4, 6},
		{"after_minus", "max(_) - mi", 11, "mi", 9, 11},
		{"after_paren", "mean(_", 6, "_", 5, 6},
		{"after_comma", "mean(_, tr", 10, "tr", 8, 10},
		{"in_map", "mean(_, {tr", 11, "tr", 9, 11},
		{"after_comparison", "a > me", 6, "me", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "median", 3, "median", 0, 6},
		{"at_start", "sum", 0, "sum", 0, 3},
		{"between_operators", "a/b", 2, "b", 2, 3},
		// After dot is an empty word (for triggering child completions).
		{"empty_after_dot", "stat.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "me", 0, ""},
		{"simple_chain", "stat.", 5, "stat"},
		{"after_operator", "sum(_) / stat.", 14, "stat"},
		{"after_paren", "(stat.", 6, "stat"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"partial_child", "stat.s", 5, "stat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates_TopLevel(t *testing.T) {
	registry := []string{"mean", "min", "stat.quantile", "stat.sd", "sum"}
	columns := []string{"population", "area"}

	got := childCandidates(registry, columns, "")

	// Dotted registry names contribute their first segment once.
	want := []string{"mean", "min", "stat", "sum", "population", "area"}
	if !slices.Equal(got, want) {
		t.Errorf("childCandidates() = %v, want %v", got, want)
	}
}

func TestChildCandidates_Accessor(t *testing.T) {
	registry := []string{"mean", "stat.quantile", "stat.sd", "sum"}

	got := childCandidates(registry, nil, "stat")

	want := []string{"quantile", "sd"}
	if !slices.Equal(got, want) {
		t.Errorf("childCandidates(stat) = %v, want %v", got, want)
	}
}

func TestChildCandidates_UnknownParent(t *testing.T) {
	registry := []string{"mean", "stat.sd"}

	got := childCandidates(registry, []string{"population"}, "bogus")
	if len(got) != 0 {
		t.Errorf("childCandidates(bogus) = %v, want empty", got)
	}
}

func TestIsFunction(t *testing.T) {
	registry := []string{"mean", "stat.sd"}

	if !isFunction("mean", registry) {
		t.Error("isFunction(mean) = false, want true")
	}

	if !isFunction("stat.sd", registry) {
		t.Error("isFunction(stat.sd) = false, want true")
	}

	if isFunction("population", registry) {
		t.Error("isFunction(population) = true, want false")
	}
}
