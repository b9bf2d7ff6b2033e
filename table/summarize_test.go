package table

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tally/call"
	"github.com/ardnew/tally/pkg"
)

// Summarization Tests
// ============================================================================

func loadSample(t *testing.T) *Table {
	t.Helper()

	tab, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read error: %v", err)
	}

	return tab
}

// TestSummarize verifies row generation order and values.
func TestSummarize(t *testing.T) {
	t.Parallel()

	tab := loadSample(t)

	list, err := call.Normalize([]call.Spec{
		call.Name("min"),
		call.Name("max"),
	})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	res, err := Summarize(context.Background(), tab,
		[]string{"population", "area"}, list)
	if err != nil {
		t.Fatalf("summarize error: %v", err)
	}

	// List order crossed with column order.
	want := []Row{
		{Column: "population", Name: "min", Value: float64(5420)},
		{Column: "area", Name: "min", Value: float64(8.2)},
		{Column: "population", Name: "max", Value: float64(30720)},
		{Column: "area", Name: "max", Value: float64(41.3)},
	}

	rows := res.Rows()
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}

	for i, row := range want {
		if rows[i] != row {
			t.Errorf("row[%d] = %+v, want %+v", i, rows[i], row)
		}
	}
}

// TestSummarize_AllColumns verifies nil selection covers every column.
func TestSummarize_AllColumns(t *testing.T) {
	t.Parallel()

	tab := loadSample(t)

	list, err := call.Normalize([]call.Spec{call.Name("count")})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	res, err := Summarize(context.Background(), tab, nil, list)
	if err != nil {
		t.Fatalf("summarize error: %v", err)
	}

	if res.Len() != 3 {
		t.Fatalf("rows = %d, want 3", res.Len())
	}

	for _, col := range tab.Columns() {
		v, ok := res.Get(col, "count")
		if !ok {
			t.Errorf("missing row for column %q", col)

			continue
		}

		if v != 3 {
			t.Errorf("count(%s) = %v, want 3", col, v)
		}
	}
}

// TestSummarize_StringColumn verifies non-numeric columns reach calls as
// generic subjects.
func TestSummarize_StringColumn(t *testing.T) {
	t.Parallel()

	tab := loadSample(t)

	list, err := call.Normalize([]call.Spec{
		call.Text(`join(_, {sep: "/"})`),
	})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	res, err := Summarize(context.Background(), tab, []string{"city"}, list)
	if err != nil {
		t.Fatalf("summarize error: %v", err)
	}

	v, ok := res.Get("city", "join")
	if !ok {
		t.Fatal("missing join row")
	}

	if v != "springfield/shelbyville/ogdenville" {
		t.Errorf("join = %v", v)
	}
}

// TestSummarize_Errors verifies error classification and propagation.
func TestSummarize_Errors(t *testing.T) {
	t.Parallel()

	tab := loadSample(t)

	list, err := call.Normalize([]call.Spec{call.Name("mean")})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	if _, err := Summarize(context.Background(), tab,
		[]string{"altitude"}, list); !errors.Is(err, pkg.ErrUnknownColumn) {
		t.Errorf("error = %v, want %v", err, pkg.ErrUnknownColumn)
	}

	// A non-numeric subject fails inside the call, carrying its sentinel.
	_, err = Summarize(context.Background(), tab, []string{"city"}, list)
	if !errors.Is(err, call.ErrExprEvaluate) {
		t.Errorf("error = %v, want %v", err, call.ErrExprEvaluate)
	}
}

// TestSummarize_ContextCanceled verifies cancellation aborts the pass.
func TestSummarize_ContextCanceled(t *testing.T) {
	t.Parallel()

	tab := loadSample(t)

	list, err := call.Normalize([]call.Spec{call.Name("min")})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Summarize(ctx, tab, nil, list); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}

// Result Formatting Tests
// ============================================================================

func sampleResult(t *testing.T) *Result {
	t.Helper()

	tab := loadSample(t)

	list, err := call.Normalize([]call.Spec{call.Name("min").As("lo")})
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}

	res, err := Summarize(context.Background(), tab,
		[]string{"population"}, list)
	if err != nil {
		t.Fatalf("summarize error: %v", err)
	}

	return res
}

// TestResult_Format verifies native rendering.
func TestResult_Format(t *testing.T) {
	t.Parallel()

	res := sampleResult(t)

	var buf bytes.Buffer
	if err := res.Format(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	if got := buf.String(); got != "  population.lo: 5420\n" {
		t.Errorf("output = %q", got)
	}
}

// TestResult_FormatJSON verifies the JSON projection round-trips.
func TestResult_FormatJSON(t *testing.T) {
	t.Parallel()

	res := sampleResult(t)

	var buf bytes.Buffer
	if err := res.FormatJSON(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if len(rows) != 1 || rows[0].Column != "population" || rows[0].Name != "lo" {
		t.Errorf("rows = %+v", rows)
	}
}

// TestResult_FormatYAML verifies the YAML projection round-trips.
func TestResult_FormatYAML(t *testing.T) {
	t.Parallel()

	res := sampleResult(t)

	var buf bytes.Buffer
	if err := res.FormatYAML(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var rows []Row
	if err := yaml.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if len(rows) != 1 || rows[0].Column != "population" {
		t.Fatalf("rows = %+v", rows)
	}

	if fmt.Sprint(rows[0].Value) != "5420" {
		t.Errorf("value = %v", rows[0].Value)
	}
}

// TestResult_ZeroValue verifies nil-safety of result accessors.
func TestResult_ZeroValue(t *testing.T) {
	t.Parallel()

	var res *Result

	if res.Len() != 0 {
		t.Error("nil result length must be 0")
	}

	if res.Rows() != nil {
		t.Error("nil result rows must be nil")
	}

	if _, ok := res.Get("a", "b"); ok {
		t.Error("nil result must have no rows")
	}
}
