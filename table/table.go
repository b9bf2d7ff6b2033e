package table

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"

	"github.com/ardnew/tally/log"
	"github.com/ardnew/tally/pkg"
)

// Table is an immutable, column-major view of a header-row CSV source.
// Numeric columns hold parsed float64 values; all other columns hold the
// original cell text.
type Table struct {
	columns map[string]column
	logger  log.Logger
	header  []string
	rows    int
}

// column is one materialized table column.
type column struct {
	values  []any
	floats  []float64 // parsed view, nil unless numeric
	numeric bool
}

// config holds CSV reading options.
type config struct {
	logger  log.Logger
	comma   rune
	comment rune
}

// Option configures CSV reading behavior.
type Option func(*config)

// WithComma sets the field delimiter (default ',').
func WithComma(comma rune) Option {
	return func(c *config) {
		c.comma = comma
	}
}

// WithComment sets the comment rune; lines beginning with it are ignored.
// The zero value disables comment handling.
func WithComment(comment rune) Option {
	return func(c *config) {
		c.comment = comment
	}
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// makeConfig builds an effective config from defaults and options.
func makeConfig(opts ...Option) *config {
	cfg := &config{comma: ','}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// ReadCSV loads a header-row CSV document into a [Table].
// The reader is wrapped with async read-ahead so data is pre-fetched while
// previous records are parsed. A source without a header row fails with
// [pkg.ErrEmptyTable]; malformed records fail with [pkg.ErrCSVParse].
func ReadCSV(ctx context.Context, r io.Reader, opts ...Option) (*Table, error) {
	cfg := makeConfig(opts...)

	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	cr := csv.NewReader(ra)
	cr.Comma = cfg.comma
	cr.Comment = cfg.comment
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkg.ErrEmptyTable
		}

		return nil, pkg.ErrCSVParse.Wrap(err)
	}

	cells := make([][]string, len(header))
	rows := 0

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, pkg.ErrCSVParse.Wrap(err)
		}

		for i, cell := range record {
			cells[i] = append(cells[i], cell)
		}

		rows++
	}

	t := &Table{
		header:  make([]string, 0, len(header)),
		columns: make(map[string]column, len(header)),
		rows:    rows,
		logger:  cfg.logger,
	}

	for i, name := range header {
		if _, exists := t.columns[name]; exists {
			return nil, pkg.ErrCSVParse.Wrapf("duplicate column %q", name)
		}

		t.header = append(t.header, name)
		t.columns[name] = makeColumn(cells[i])
	}

	cfg.logger.TraceContext(ctx, "read table",
		slog.Int("columns", len(t.header)),
		slog.Int("rows", rows),
		slog.Bool("read_ahead", true),
	)

	return t, nil
}

// makeColumn materializes one column, detecting a numeric view by parse.
// A column is numeric when every cell parses as a float and at least one
// row exists.
func makeColumn(cells []string) column {
	floats := make([]float64, len(cells))
	numeric := len(cells) > 0

	for i, cell := range cells {
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false

			break
		}

		floats[i] = f
	}

	values := make([]any, len(cells))

	if numeric {
		for i, f := range floats {
			values[i] = f
		}

		return column{values: values, floats: floats, numeric: true}
	}

	for i, cell := range cells {
		values[i] = cell
	}

	return column{values: values}
}

// Columns returns the column names in header order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.header))
	copy(names, t.header)

	return names
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// IsNumeric reports whether the named column holds a numeric view.
func (t *Table) IsNumeric(name string) bool {
	return t.columns[name].numeric
}

// Column returns the named column as []any. Numeric columns yield float64
// elements; all others yield the original cell text.
func (t *Table) Column(name string) ([]any, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, pkg.ErrUnknownColumn.Wrapf("%q", name)
	}

	return col.values, nil
}

// Numeric returns the parsed float view of the named column.
func (t *Table) Numeric(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, pkg.ErrUnknownColumn.Wrapf("%q", name)
	}

	if !col.numeric {
		return nil, pkg.ErrNonNumericColumn.Wrapf("%q", name)
	}

	return col.floats, nil
}

// subject returns the invocation subject for the named column: the float
// view when numeric, the generic view otherwise.
func (t *Table) subject(name string) (any, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, pkg.ErrUnknownColumn.Wrapf("%q", name)
	}

	if col.numeric {
		return col.floats, nil
	}

	return col.values, nil
}
