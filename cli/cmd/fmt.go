package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/ardnew/tally/call"
	"github.com/ardnew/tally/log"
)

// Fmt normalizes call specs and prints them in the chosen format
// without evaluating anything.
type Fmt struct {
	Native FmtNative `cmd:"" default:"withargs" help:"Format as normalized call syntax (default)."`
	JSON   FmtJSON   `cmd:""                    help:"Format as JSON."`
	YAML   FmtYAML   `cmd:""                    help:"Format as YAML."`
	AST    FmtAST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// fmtSpecs collects and normalizes the call specs shared by the fmt
// subcommands.
func fmtSpecs(
	ctx context.Context, specs, files []string, kwargs string,
) (*call.List, error) {
	if len(files) > 0 {
		fromFiles, err := readSpecFiles(files, searchPathFrom(ctx))
		if err != nil {
			return nil, err
		}

		specs = append(specs, fromFiles...)
	}

	if len(specs) == 0 {
		return nil, ErrNoSpecs
	}

	args, err := call.ParseArgs(kwargs)
	if err != nil {
		return nil, err
	}

	return normalizeSpecs(specs,
		call.WithArgs(args),
		call.WithLogger(log.Default()),
	)
}

// FmtNative prints specs in normalized call syntax.
type FmtNative struct {
	Specs []string `arg:"" help:"Call specs to normalize" name:"specs" optional:""`

	File   []string `help:"Read specs from file(s) resolved against the search path" short:"F"`
	Args   string   `help:"Keyword arguments merged into every spec"                 short:"a"`
	Indent int      `help:"Indent width for formatted output"                        short:"n" default:"2"`
}

// Run executes the fmt native subcommand.
func (f *FmtNative) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list, err := fmtSpecs(ctx, f.Specs, f.File, f.Args)
	if err != nil {
		return err
	}

	return list.Format(ctx, os.Stdout, f.Indent)
}

// FmtJSON prints specs as a JSON object mapping names to calls.
type FmtJSON struct {
	Specs []string `arg:"" help:"Call specs to normalize" name:"specs" optional:""`

	File   []string `help:"Read specs from file(s) resolved against the search path" short:"F"`
	Args   string   `help:"Keyword arguments merged into every spec"                 short:"a"`
	Indent int      `help:"Indent width for JSON output"                             short:"n" default:"2"`
}

// Run executes the fmt json subcommand.
func (f *FmtJSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list, err := fmtSpecs(ctx, f.Specs, f.File, f.Args)
	if err != nil {
		return err
	}

	return list.FormatJSON(ctx, os.Stdout, f.Indent)
}

// FmtYAML prints specs as a YAML mapping of names to calls.
type FmtYAML struct {
	Specs []string `arg:"" help:"Call specs to normalize" name:"specs" optional:""`

	File   []string `help:"Read specs from file(s) resolved against the search path" short:"F"`
	Args   string   `help:"Keyword arguments merged into every spec"                 short:"a"`
	Indent int      `help:"Indent width for YAML output"                             short:"n" default:"2"`
}

// Run executes the fmt yaml subcommand.
func (f *FmtYAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list, err := fmtSpecs(ctx, f.Specs, f.File, f.Args)
	if err != nil {
		return err
	}

	return list.FormatYAML(ctx, os.Stdout, f.Indent)
}

// FmtAST prints the expression tree of each normalized spec.
type FmtAST struct {
	Specs []string `arg:"" help:"Call specs to normalize" name:"specs" optional:""`

	File []string `help:"Read specs from file(s) resolved against the search path" short:"F"`
	Args string   `help:"Keyword arguments merged into every spec"                 short:"a"`
}

// Run executes the fmt ast subcommand.
func (f *FmtAST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list, err := fmtSpecs(ctx, f.Specs, f.File, f.Args)
	if err != nil {
		return err
	}

	for name, d := range list.All() {
		source := d.Source()
		if source == "" {
			// Function-backed entries have no expression tree.
			fmt.Printf("%s:\n\t<function>\n", name)

			continue
		}

		tree, err := parser.Parse(source)
		if err != nil {
			return call.ErrExprParse.Wrap(err)
		}

		fmt.Printf("%s:\n%s\n", name, ast.Dump(tree.Node))
	}

	return nil
}
