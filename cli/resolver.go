package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that parses YAML config
// files and applies the mapping found under the given top-level key.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.yaml")
//
// Flag names with hyphens (e.g., "log-level") may use underscores in the
// config file (e.g., "log_level"); both forms resolve. Values are
// converted to strings for Kong's flag parsing. Command-line flags
// override config file values.
//
// Example config file:
//
//	config:
//	  log_level: debug
//	  log_format: json
//	  log_pretty: true
func resolve(
	ctx context.Context,
	name string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			// Unreadable config - return empty config
			return config{}, nil
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			// Parse error - return empty config
			return config{}, nil
		}

		section, ok := doc[name].(map[string]any)
		if !ok {
			// Section not found or not a mapping - return empty config
			return config{}, nil
		}

		return config(flatten(section)), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys may use
	// underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	underscoreName := strings.ReplaceAll(flag.Name, "-", "_")
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten converts a YAML mapping to flag-ready values.
// Kong requires scalar flag values as strings for parsing; sequences are
// kept as-is for repeatable flags.
func flatten(section map[string]any) map[string]any {
	result := make(map[string]any, len(section))

	for key, value := range section {
		switch v := value.(type) {
		case string:
			result[key] = v

		case []any:
			result[key] = v

		case map[string]any:
			// Nested mappings are not addressable by flag name; skip.

		default:
			result[key] = fmt.Sprint(v)
		}
	}

	return result
}
