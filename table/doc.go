// Package table loads header-row CSV data into column-major tables and
// applies deferred summary calls to their columns.
//
// A [Table] stores each column contiguously, with numeric columns detected
// by parse so summary functions receive []float64 subjects directly.
// [Summarize] evaluates every entry of a [call.List] against every selected
// column, producing an ordered [Result]:
//
//	t, err := table.ReadCSV(ctx, file)
//	if err != nil {
//		return err
//	}
//
//	list, err := call.Normalize([]call.Spec{call.Name("min"), call.Name("max")})
//	if err != nil {
//		return err
//	}
//
//	res, err := table.Summarize(ctx, t, nil, list)
//	if err != nil {
//		return err
//	}
//
//	res.Format(ctx, os.Stdout, 0)
//
// Result rows are generated in list order crossed with column order, so
// output is deterministic for a given table and spec list.
package table
