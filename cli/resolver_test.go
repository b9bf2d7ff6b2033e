package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve_SectionValues(t *testing.T) {
	doc := `
config:
  log_level: debug
  log_format: text
other:
  foo: bar
`

	loader := resolve(context.Background(), "config")

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	flag := &kong.Flag{Value: &kong.Value{Name: "log_level"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "debug" {
		t.Errorf("log_level = %v, want debug", val)
	}

	// Values outside the named section are not visible.
	flag = &kong.Flag{Value: &kong.Value{Name: "foo"}}

	val, err = resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("foo = %v, want nil (outside config section)", val)
	}
}

func TestResolve_UnderscoreHyphenMapping(t *testing.T) {
	doc := "config:\n  log_level: debug\n"

	loader := resolve(context.Background(), "config")

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	// Kong flag names use hyphens; the YAML key uses an underscore.
	flag := &kong.Flag{Value: &kong.Value{Name: "log-level"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "debug" {
		t.Errorf("log-level = %v, want debug", val)
	}
}

func TestResolve_MissingSection(t *testing.T) {
	doc := "existing:\n  foo: bar\n"

	loader := resolve(context.Background(), "missing")

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	flag := &kong.Flag{Value: &kong.Value{Name: "foo"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("foo = %v, want nil for missing section", val)
	}
}

func TestResolve_InvalidYAML(t *testing.T) {
	loader := resolve(context.Background(), "config")

	// Malformed config files never abort flag parsing.
	resolver, err := loader(strings.NewReader("config: [unclosed"))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	flag := &kong.Flag{Value: &kong.Value{Name: "anything"}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("value = %v, want nil from empty config", val)
	}
}

func TestResolve_ReadError(t *testing.T) {
	loader := resolve(context.Background(), "config")

	resolver, err := loader(&errorReader{err: bytes.ErrTooLarge})
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	if err := resolver.Validate(nil); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestFlatten(t *testing.T) {
	section := map[string]any{
		"level":  "debug",
		"indent": 4,
		"pretty": true,
		"files":  []any{"a.csv", "b.csv"},
		"nested": map[string]any{"skipped": true},
	}

	got := flatten(section)

	if got["level"] != "debug" {
		t.Errorf("level = %v, want debug", got["level"])
	}

	// Non-string scalars are stringified for Kong's flag parsing.
	if got["indent"] != "4" {
		t.Errorf("indent = %v, want %q", got["indent"], "4")
	}

	if got["pretty"] != "true" {
		t.Errorf("pretty = %v, want %q", got["pretty"], "true")
	}

	// Sequences survive for repeatable flags.
	if files, ok := got["files"].([]any); !ok || len(files) != 2 {
		t.Errorf("files = %v, want 2-element sequence", got["files"])
	}

	// Nested mappings are not addressable by flag name.
	if _, ok := got["nested"]; ok {
		t.Error("nested mapping should be dropped")
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct {
	err error
}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, e.err
}
