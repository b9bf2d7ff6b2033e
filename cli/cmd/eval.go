package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tally/call"
	"github.com/ardnew/tally/log"
	"github.com/ardnew/tally/pkg"
	"github.com/ardnew/tally/table"
)

// Eval evaluates call specs against the columns of a CSV input.
type Eval struct {
	Specs []string `arg:"" help:"Call specs to evaluate (e.g. 'mean' or 'lo=min(_)')" name:"specs" optional:""`

	File    []string `help:"Read specs from file(s) resolved against the search path"  short:"F"`
	Input   string   `help:"CSV input file or '-' for stdin"                           short:"i" default:"-"`
	Column  []string `help:"Columns to summarize (default: all)"                       short:"c"`
	Args    string   `help:"Keyword arguments merged into every spec (e.g. 'trim: 0.1')" short:"a"`
	Comma   string   `help:"CSV field delimiter"                                       default:","`
	Comment string   `help:"CSV comment character (lines starting with it are skipped)"`
	Format  string   `help:"Output format"                                             short:"o" enum:"native,json,yaml" default:"native"`
	Indent  int      `help:"Indent width for formatted output"                         short:"n" default:"2"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	specs := e.Specs

	if len(e.File) > 0 {
		fromFiles, err := readSpecFiles(e.File, searchPathFrom(ctx))
		if err != nil {
			return err
		}

		specs = append(specs, fromFiles...)
	}

	if len(specs) == 0 {
		return ErrNoSpecs
	}

	args, err := call.ParseArgs(e.Args)
	if err != nil {
		return err
	}

	list, err := normalizeSpecs(specs,
		call.WithArgs(args),
		call.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	input, err := openInput(e.Input)
	if err != nil {
		return err
	}
	defer input.Close()

	opts := []table.Option{table.WithLogger(log.Default())}

	if e.Comma != "" {
		opts = append(opts, table.WithComma([]rune(e.Comma)[0]))
	}

	if e.Comment != "" {
		opts = append(opts, table.WithComment([]rune(e.Comment)[0]))
	}

	tab, err := table.ReadCSV(ctx, input, opts...)
	if err != nil {
		return err
	}

	result, err := table.Summarize(ctx, tab, e.Column, list)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "summarized table",
		slog.Int("rows", tab.Len()),
		slog.Int("columns", len(tab.Columns())),
		slog.Int("results", result.Len()),
	)

	switch e.Format {
	case "native":
		return result.Format(ctx, os.Stdout, 0)

	case "json":
		return result.FormatJSON(ctx, os.Stdout, e.Indent)

	case "yaml":
		return result.FormatYAML(ctx, os.Stdout, e.Indent)

	default:
		return pkg.ErrInvalidFormat.Wrap(pkg.MakeErrorf(
			"%q (valid: native, json, yaml)", e.Format,
		))
	}
}
