package call

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
)

// formatWidth is the column budget for rendered call sources; longer
// sources are truncated with an ellipsis.
const formatWidth = 58

// truncateCall shortens a rendered call to the column budget, cutting on
// a rune boundary so a multi-byte rune at the edge is dropped whole.
func truncateCall(call string) string {
	if len(call) <= formatWidth {
		return call
	}

	cut := formatWidth - 3
	for cut > 0 && !utf8.RuneStart(call[cut]) {
		cut--
	}

	return call[:cut] + "..."
}

// projection is the machine-readable view of one entry.
type projection struct {
	Name string `json:"name" yaml:"name"`
	Call string `json:"call" yaml:"call"`
}

// render returns the display form of an entry's call.
func (d *Deferred) render() string {
	if d.fn != nil {
		if name := funcName(d.fn); name != "" {
			return "<function " + name + ">"
		}

		return "<function>"
	}

	return d.source
}

// project converts the list into its presentation rows.
func (l *List) project() []projection {
	rows := make([]projection, 0, l.Len())

	for name, d := range l.All() {
		rows = append(rows, projection{
			Name: name,
			Call: d.render(),
		})
	}

	return rows
}

// Format writes the list in native "name: call" diagnostic syntax.
// Call sources are truncated to a fixed column budget.
func (l *List) Format(_ context.Context, w io.Writer, indent int) error {
	prefix := strings.Repeat(" ", indent)

	for _, row := range l.project() {
		call := truncateCall(row.Call)

		if _, err := fmt.Fprintf(w, "%s%s: %s\n", prefix, row.Name, call); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the list projection as JSON to the writer.
func (l *List) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	rows := l.project()

	if indent > 0 {
		jsonData, err = json.MarshalIndent(rows, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(rows)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the list projection as YAML to the writer.
func (l *List) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, l.project(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
