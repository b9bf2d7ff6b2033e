package call

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Arg is a single named extra argument.
type Arg struct {
	Value any
	Name  string
}

// Args is an ordered set of extra arguments shared by every spec in a
// normalizing call. Merge order follows slice order; on a name collision
// with a spec's own keyword map, the extra wins.
type Args []Arg

// Get returns the value bound to name and whether it exists.
func (a Args) Get(name string) (any, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}

	return nil, false
}

// Map returns the arguments as an unordered map.
func (a Args) Map() map[string]any {
	if len(a) == 0 {
		return nil
	}

	m := make(map[string]any, len(a))
	for _, arg := range a {
		m[arg.Name] = arg.Value
	}

	return m
}

// ParseArgs parses a keyword argument list from expr-lang map literal
// syntax, with or without the surrounding braces (e.g. "trim: 0.1" or
// "{trim: 0.1, na: true}"). Every value must be a constant expression.
// Pair order is preserved.
func ParseArgs(source string) (Args, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	if !strings.HasPrefix(source, "{") {
		source = "{" + source + "}"
	}

	tree, err := parser.Parse(source)
	if err != nil {
		return nil, ErrExprParse.Wrap(err).
			With(slog.String("source", source))
	}

	mapNode, ok := tree.Node.(*ast.MapNode)
	if !ok {
		return nil, ErrInvalidInput.
			With(
				slog.String("source", source),
				slog.String("issue", "not a keyword argument map"),
			)
	}

	args := make(Args, 0, len(mapNode.Pairs))

	for _, pair := range mapNode.Pairs {
		p, ok := pair.(*ast.PairNode)
		if !ok {
			continue
		}

		key, ok := p.Key.(*ast.StringNode)
		if !ok {
			return nil, ErrInvalidInput.
				With(
					slog.String("source", source),
					slog.String("issue", "keyword name must be an identifier"),
				)
		}

		value, err := evalConstant(p.Value)
		if err != nil {
			return nil, err
		}

		args = append(args, Arg{Name: key.Value, Value: value})
	}

	return args, nil
}

// evalConstant compiles and runs a value expression with an empty
// environment, so only constant expressions are accepted.
func evalConstant(node ast.Node) (any, error) {
	source := node.String()

	program, err := expr.Compile(source)
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	value, err := vm.Run(program, nil)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	return value, nil
}
