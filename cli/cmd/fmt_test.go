package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// FmtSpecs Tests
// ==============

func TestFmtSpecs(t *testing.T) {
	t.Parallel()

	list, err := fmtSpecs(
		context.Background(),
		[]string{"mean", "lo=min(_)"},
		nil,
		"",
	)
	if err != nil {
		t.Fatalf("fmtSpecs() error: %v", err)
	}

	want := []string{"mean", "lo"}
	if got := list.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestFmtSpecs_Empty(t *testing.T) {
	t.Parallel()

	_, err := fmtSpecs(context.Background(), nil, nil, "")
	if !errors.Is(err, ErrNoSpecs) {
		t.Errorf("fmtSpecs() error = %v, want %v", err, ErrNoSpecs)
	}
}

func TestFmtSpecs_MergesArgs(t *testing.T) {
	t.Parallel()

	list, err := fmtSpecs(
		context.Background(),
		[]string{"mean(_)"},
		nil,
		"trim: 0.1",
	)
	if err != nil {
		t.Fatalf("fmtSpecs() error: %v", err)
	}

	source := list.Index(0).Source()
	if source != `mean(_, {trim: 0.1})` {
		t.Errorf("Source() = %q, want merged keyword map", source)
	}
}

func TestFmtSpecs_BadArgs(t *testing.T) {
	t.Parallel()

	_, err := fmtSpecs(context.Background(), []string{"mean"}, nil, "{{{")
	if err == nil {
		t.Error("fmtSpecs() expected error for malformed arguments")
	}
}

func TestFmtSpecs_FromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path := filepath.Join(dir, "stats.tally")
	if err := os.WriteFile(path, []byte("median\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	list, err := fmtSpecs(
		context.Background(), []string{"mean"}, []string{path}, "",
	)
	if err != nil {
		t.Fatalf("fmtSpecs() error: %v", err)
	}

	// Positional specs precede file specs.
	want := []string{"mean", "median"}
	if got := list.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

// Subcommand Tests
// ================

func TestFmtSubcommands(t *testing.T) {
	t.Parallel()

	specs := []string{"mean", "hi=max(_)", "stat.sd(_)"}

	tests := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"native", (&FmtNative{Specs: specs, Indent: 2}).Run},
		{"json", (&FmtJSON{Specs: specs, Indent: 2}).Run},
		{"yaml", (&FmtYAML{Specs: specs, Indent: 2}).Run},
		{"ast", (&FmtAST{Specs: specs}).Run},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.run(context.Background()); err != nil {
				t.Errorf("Run() error: %v", err)
			}
		})
	}
}
