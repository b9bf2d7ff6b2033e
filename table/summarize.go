package table

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tally/call"
	"github.com/ardnew/tally/pkg"
)

// Row is one summarized value: the result of applying one deferred call
// to one column.
type Row struct {
	Value  any    `json:"value" yaml:"value"`
	Column string `json:"column" yaml:"column"`
	Name   string `json:"name" yaml:"name"`
}

// Result is the ordered outcome of a summarization pass.
// Rows appear in list order crossed with column order.
type Result struct {
	rows []Row
}

// Summarize applies every entry of list to every selected column of t.
// A nil or empty columns slice selects every column in header order.
// Numeric columns are passed to calls as []float64, others as []any.
// The first failing invocation aborts the pass.
func Summarize(
	ctx context.Context,
	t *Table,
	columns []string,
	list *call.List,
) (*Result, error) {
	if len(columns) == 0 {
		columns = t.Columns()
	}

	// Validate the selection up front so a bad column name fails before
	// any call is invoked.
	subjects := make([]any, len(columns))

	for i, name := range columns {
		subject, err := t.subject(name)
		if err != nil {
			return nil, err
		}

		subjects[i] = subject
	}

	result := &Result{
		rows: make([]Row, 0, list.Len()*len(columns)),
	}

	for name, d := range list.All() {
		for i, col := range columns {
			value, err := d.Invoke(ctx, subjects[i])
			if err != nil {
				return nil, pkg.MakeErrorf(
					"summarize %q over column %q", name, col,
				).Wrap(err)
			}

			result.rows = append(result.rows, Row{
				Column: col,
				Name:   name,
				Value:  value,
			})
		}
	}

	t.logger.TraceContext(ctx, "summarized table",
		slog.Int("columns", len(columns)),
		slog.Int("calls", list.Len()),
		slog.Int("rows", len(result.rows)),
	)

	return result, nil
}

// Len returns the number of summarized rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}

	return len(r.rows)
}

// Rows returns the summarized rows in generation order.
func (r *Result) Rows() []Row {
	if r == nil {
		return nil
	}

	rows := make([]Row, len(r.rows))
	copy(rows, r.rows)

	return rows
}

// Get returns the value summarized for the given column and entry name.
func (r *Result) Get(column, name string) (any, bool) {
	if r == nil {
		return nil, false
	}

	for _, row := range r.rows {
		if row.Column == column && row.Name == name {
			return row.Value, true
		}
	}

	return nil, false
}

// Format writes rows in native "column.name: value" diagnostic syntax.
func (r *Result) Format(_ context.Context, w io.Writer, indent int) error {
	prefix := strings.Repeat(" ", indent)

	for _, row := range r.rows {
		_, err := fmt.Fprintf(w, "%s%s.%s: %v\n",
			prefix, row.Column, row.Name, row.Value)
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes rows as JSON to the writer.
func (r *Result) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(r.rows, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(r.rows)
	}

	if err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes rows as YAML to the writer.
func (r *Result) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, r.rows, opts...)
	if err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
