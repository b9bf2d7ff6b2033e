package call

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Placeholder is the reserved identifier marking the subject slot in a
// partial call expression. PlaceholderAlias is accepted as a synonym and
// bound to the same value at invocation.
const (
	Placeholder      = "_"
	PlaceholderAlias = "it"
)

// rewriteSource parses an expression spec and normalizes its tree.
// It returns the rewritten tree and the call-head label.
func rewriteSource(source string, extras Args) (*parser.Tree, string, error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, "", ErrExprParse.Wrap(err).
			With(exprAttr(source)...)
	}

	head, err := rewrite(tree, extras)
	if err != nil {
		return nil, "", err
	}

	return tree, head, nil
}

// exprAttr builds the standard source attribute for expression errors.
func exprAttr(source string) []slog.Attr {
	return []slog.Attr{slog.String("source", source)}
}

// constructRejector detects AST constructs that cannot be normalized.
// It implements ast.Visitor and records the first offending node.
//
// Closure literals and pointer shorthand are rejected because the subject
// binding they capture is invisible to the deferred environment: by the
// time the program runs, the enclosing frame is gone.
type constructRejector struct {
	err *Error
}

// Visit implements ast.Visitor for constructRejector.
func (r *constructRejector) Visit(node *ast.Node) {
	if r.err != nil {
		return
	}

	switch (*node).(type) {
	case *ast.PredicateNode:
		r.err = ErrUnsupportedConstruct.
			With(
				slog.String("construct", "closure literal"),
				slog.String("source", (*node).String()),
			)

	case *ast.PointerNode:
		r.err = ErrUnsupportedConstruct.
			With(
				slog.String("construct", "pointer shorthand"),
				slog.String("source", (*node).String()),
			)
	}
}

// rejectUnsupported walks the tree and returns an error for the first
// unsupported construct found.
func rejectUnsupported(node *ast.Node) error {
	r := &constructRejector{}
	ast.Walk(node, r)

	if r.err != nil {
		return r.err
	}

	return nil
}

// builtinCaller rewrites parser-recognized builtin calls into ordinary
// calls so the name resolves through the registry env at run time instead
// of being bound to the engine's own builtin at compile time.
type builtinCaller struct{}

// Visit implements ast.Visitor for builtinCaller.
func (builtinCaller) Visit(node *ast.Node) {
	b, ok := (*node).(*ast.BuiltinNode)
	if !ok {
		return
	}

	ast.Patch(node, &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: b.Name},
		Arguments: b.Arguments,
	})
}

// headLabel returns the display label of a call head: identifier text, or
// a dotted member path (e.g. "stat.sd"). Returns "" when the node is not
// a labelable head.
func headLabel(node ast.Node) string {
	path, ok := memberPath(node)
	if !ok {
		return ""
	}

	return strings.Join(path, ".")
}

// memberPath walks a MemberNode chain to produce path segments.
func memberPath(node ast.Node) ([]string, bool) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return []string{n.Value}, true

	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, false
		}

		base, ok := memberPath(n.Node)
		if !ok {
			return nil, false
		}

		return append(base, prop.Value), true

	default:
		return nil, false
	}
}

// rewrite normalizes a parsed spec tree in place:
//
//   - a bare identifier or member accessor root is wrapped into a call on
//     the placeholder, with extras attached as a trailing keyword map
//   - a call root has extras merged into its trailing keyword map
//   - any other root passes through unchanged (extras cannot attach)
//
// It returns the label of the call head for name synthesis, or "" when no
// head exists.
func rewrite(tree *parser.Tree, extras Args) (string, error) {
	if err := rejectUnsupported(&tree.Node); err != nil {
		return "", err
	}

	ast.Walk(&tree.Node, builtinCaller{})

	switch root := tree.Node.(type) {
	case *ast.CallNode:
		if err := mergeExtras(root, extras); err != nil {
			return "", err
		}

		return headLabel(root.Callee), nil

	case *ast.IdentifierNode, *ast.MemberNode:
		label := headLabel(root)
		if label == "" {
			// Computed member access (e.g. m[key]) is not a name
			// reference; pass it through like any other expression.
			return "", nil
		}

		// A bare placeholder denotes the subject itself, not a call.
		if label == Placeholder || label == PlaceholderAlias {
			return "", nil
		}

		wrapped, err := wrapCall(root, extras)
		if err != nil {
			return "", err
		}

		ast.Patch(&tree.Node, wrapped)

		return label, nil

	default:
		return "", nil
	}
}

// wrapCall builds a call whose first argument is the placeholder and whose
// second argument is the extras keyword map, when present.
func wrapCall(callee ast.Node, extras Args) (*ast.CallNode, error) {
	arguments := []ast.Node{
		&ast.IdentifierNode{Value: Placeholder},
	}

	if len(extras) > 0 {
		keywords, err := keywordMap(extras)
		if err != nil {
			return nil, err
		}

		arguments = append(arguments, keywords)
	}

	return &ast.CallNode{
		Callee:    callee,
		Arguments: arguments,
	}, nil
}

// mergeExtras merges the extra arguments into the call's trailing keyword
// map, creating one if absent. Extras overwrite same-named keys and append
// in order otherwise. The callee is never rewritten.
func mergeExtras(call *ast.CallNode, extras Args) error {
	if len(extras) == 0 {
		return nil
	}

	var keywords *ast.MapNode

	if n := len(call.Arguments); n > 0 {
		if m, ok := call.Arguments[n-1].(*ast.MapNode); ok {
			keywords = m
		}
	}

	if keywords == nil {
		keywords = &ast.MapNode{}
		call.Arguments = append(call.Arguments, keywords)
	}

	for _, extra := range extras {
		value, err := valueNode(extra.Value)
		if err != nil {
			return err
		}

		pair := &ast.PairNode{
			Key:   &ast.StringNode{Value: extra.Name},
			Value: value,
		}

		if i := pairIndex(keywords, extra.Name); i >= 0 {
			keywords.Pairs[i] = pair
		} else {
			keywords.Pairs = append(keywords.Pairs, pair)
		}
	}

	return nil
}

// pairIndex returns the index of the pair keyed by name, or -1.
func pairIndex(m *ast.MapNode, name string) int {
	for i, pair := range m.Pairs {
		p, ok := pair.(*ast.PairNode)
		if !ok {
			continue
		}

		if key, ok := p.Key.(*ast.StringNode); ok && key.Value == name {
			return i
		}
	}

	return -1
}

// keywordMap builds a map literal node from ordered extras.
func keywordMap(extras Args) (*ast.MapNode, error) {
	pairs := make([]ast.Node, 0, len(extras))

	for _, extra := range extras {
		value, err := valueNode(extra.Value)
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, &ast.PairNode{
			Key:   &ast.StringNode{Value: extra.Name},
			Value: value,
		})
	}

	return &ast.MapNode{Pairs: pairs}, nil
}

// valueNode converts a Go value into an expr-lang literal node.
// Only scalars, strings, and slices thereof are representable; anything
// else cannot round-trip through expression source.
func valueNode(value any) (ast.Node, error) {
	switch v := value.(type) {
	case nil:
		return &ast.NilNode{}, nil

	case bool:
		return &ast.BoolNode{Value: v}, nil

	case int:
		return &ast.IntegerNode{Value: v}, nil

	case int64:
		return &ast.IntegerNode{Value: int(v)}, nil

	case float64:
		return &ast.FloatNode{Value: v}, nil

	case float32:
		return &ast.FloatNode{Value: float64(v)}, nil

	case string:
		return &ast.StringNode{Value: v}, nil

	case []any:
		nodes := make([]ast.Node, 0, len(v))

		for _, item := range v {
			node, err := valueNode(item)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, node)
		}

		return &ast.ArrayNode{Nodes: nodes}, nil

	default:
		return nil, ErrInvalidInput.
			With(
				slog.String("issue", "argument value not representable"),
				slog.String("type", typeName(value)),
			)
	}
}
