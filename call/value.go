package call

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
)

// typeName returns a string representation of a value's type.
func typeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}

// toSlice converts an arbitrary subject into a []any column.
// Scalars become single-element columns.
func toSlice(subject any) []any {
	switch v := subject.(type) {
	case nil:
		return nil

	case []any:
		return v

	case []float64:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}

		return out

	case []int:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}

		return out

	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}

		return out
	}

	rv := reflect.ValueOf(subject)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}

		return out
	}

	return []any{subject}
}

// toFloats converts a subject into a []float64 column.
// Non-numeric elements fail with ErrInvalidInput.
func toFloats(subject any) ([]float64, error) {
	if v, ok := subject.([]float64); ok {
		return v, nil
	}

	items := toSlice(subject)
	out := make([]float64, len(items))

	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, ErrInvalidInput.
				With(
					slog.Int("index", i),
					slog.String("issue", "non-numeric element"),
					slog.String("type", typeName(item)),
				)
		}

		out[i] = f
	}

	return out, nil
}

// toFloat converts a scalar to float64 when possible.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)

		return f, err == nil
	default:
		return 0, false
	}
}

// toStrings converts a subject into a []string column using default
// formatting for non-string elements.
func toStrings(subject any) []string {
	items := toSlice(subject)
	out := make([]string, len(items))

	for i, item := range items {
		switch v := item.(type) {
		case string:
			out[i] = v
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			out[i] = strconv.Itoa(v)
		case bool:
			out[i] = strconv.FormatBool(v)
		default:
			out[i] = fmt.Sprintf("%v", v)
		}
	}

	return out
}

// optFloat extracts a float option by name from a trailing keyword map.
func optFloat(opts []map[string]any, name string, fallback float64) float64 {
	for _, m := range opts {
		if v, ok := m[name]; ok {
			if f, ok := toFloat(v); ok {
				return f
			}
		}
	}

	return fallback
}

// optString extracts a string option by name from a trailing keyword map.
func optString(opts []map[string]any, name, fallback string) string {
	for _, m := range opts {
		if v, ok := m[name]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}

	return fallback
}
