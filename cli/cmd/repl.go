package cmd

import (
	"context"

	"github.com/ardnew/tally/call"
	"github.com/ardnew/tally/cli/cmd/repl"
	"github.com/ardnew/tally/log"
	"github.com/ardnew/tally/table"
)

// Repl starts an interactive prompt for evaluating call specs against a
// CSV table.
type Repl struct {
	Input string `arg:"" help:"CSV input file to load on startup" name:"input" optional:""`

	Column  []string `help:"Columns to summarize (default: all)" short:"c"`
	Args    string   `help:"Keyword arguments merged into every spec (e.g. 'trim: 0.1')" short:"a"`
	Comma   string   `help:"CSV field delimiter" default:","`
	Comment string   `help:"CSV comment character (lines starting with it are skipped)"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache directory undefined")
	}

	args, err := call.ParseArgs(r.Args)
	if err != nil {
		return err
	}

	opts := []table.Option{table.WithLogger(log.Default())}

	if r.Comma != "" {
		opts = append(opts, table.WithComma([]rune(r.Comma)[0]))
	}

	if r.Comment != "" {
		opts = append(opts, table.WithComment([]rune(r.Comment)[0]))
	}

	var tab *table.Table

	if r.Input != "" {
		input, err := openInput(r.Input)
		if err != nil {
			return err
		}
		defer input.Close()

		tab, err = table.ReadCSV(ctx, input, opts...)
		if err != nil {
			return err
		}
	}

	return repl.Run(ctx, repl.Options{
		Table:    tab,
		Columns:  r.Column,
		Args:     args,
		CacheDir: cacheDir,
		Logger:   log.Default(),
		ReadOpts: opts,
	})
}
