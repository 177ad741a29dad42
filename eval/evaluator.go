// Package eval walks the AST against a ContextStack. Normal expressions have
// all their parameters evaluated (left to right) before the call; special
// expressions get the raw node and decide themselves what to evaluate.
package eval

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"fortio.org/log"
	"grol.io/lits/ast"
	"grol.io/lits/errdefs"
	"grol.io/lits/object"
	"grol.io/lits/token"
)

// Approximate maximum nesting of evaluations, to fail with a RecursionError
// well before the goroutine stack limit is reached. A function call uses at
// least 2 levels.
const DefaultMaxDepth = 50_000

// Evaluator is not safe for concurrent use (it tracks the current depth).
type Evaluator struct {
	Registry *Registry
	MaxDepth int
	depth    int
}

func New(registry *Registry) *Evaluator {
	return &Evaluator{Registry: registry, MaxDepth: DefaultMaxDepth}
}

// RecurSignal is returned by recur and consumed by the enclosing loop or
// function, which iterates with the new arguments instead of recursing.
type RecurSignal struct {
	Args  []any
	Token *token.Token
}

func (r *RecurSignal) Error() string {
	return "recur used outside of loop or function"
}

// Evaluate runs the top level nodes in order and returns the last value (nil for an empty program).
func (e *Evaluator) Evaluate(program *ast.Program, cs *ContextStack) (any, error) {
	var result any
	for _, node := range program.Body {
		if _, ok := node.(*ast.Comment); ok {
			continue
		}
		v, err := e.EvaluateAstNode(node, cs)
		if err != nil {
			var recur *RecurSignal
			if errors.As(err, &recur) {
				return nil, errdefs.NewArgumentError(recur.Error()+".", recur.Token)
			}
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) EvaluateAstNode(node ast.Node, cs *ContextStack) (any, error) {
	if e.depth >= e.MaxDepth {
		log.LogVf("max depth %d reached", e.MaxDepth)
		return nil, errdefs.NewRecursionError(e.MaxDepth, node.Tok())
	}
	e.depth++
	defer func() { e.depth-- }()
	switch node := node.(type) {
	case *ast.Number:
		return node.Value, nil
	case *ast.String:
		return node.Value, nil
	case *ast.Name:
		return cs.EvaluateName(node.Value, node.Token)
	case *ast.ReservedName:
		r, _ := token.LookupReserved(node.Value)
		return r.Value, nil
	case *ast.NormalExpression:
		return e.evaluateNormalExpression(node, cs)
	case *ast.SpecialExpression:
		special, ok := e.Registry.Special[node.Name]
		if !ok {
			return nil, cs.Undefined(node.Name, node.Token)
		}
		return special.Evaluate(node, cs, e)
	case *ast.Comment:
		return nil, nil
	}
	return nil, errdefs.NewParseError("Unknown node type.", node.Tok())
}

func (e *Evaluator) evaluateNormalExpression(node *ast.NormalExpression, cs *ContextStack) (any, error) {
	params := make([]any, len(node.Params))
	for i, p := range node.Params {
		v, err := e.EvaluateAstNode(p, cs)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}
	if node.Callee != nil {
		fn, err := e.EvaluateAstNode(node.Callee, cs)
		if err != nil {
			return nil, err
		}
		return e.ExecuteFunction(fn, params, cs, node.Token)
	}
	// user and host bindings shadow builtins.
	if fn, ok := cs.GetValue(node.Name); ok {
		return e.ExecuteFunction(fn, params, cs, node.Token)
	}
	if normal, ok := e.Registry.Normal[node.Name]; ok {
		return normal.Evaluate(params, node.Token, cs, e)
	}
	return nil, cs.Undefined(node.Name, node.Token)
}

// ExecuteFunction calls fn, which can be a declared function or one of the
// callable values: array (index), object (key), string (key or index) and
// integer (index into an array or string).
func (e *Evaluator) ExecuteFunction(fn any, args []any, cs *ContextStack, tok *token.Token) (any, error) {
	switch fn := fn.(type) {
	case *object.UserFunction:
		return e.executeUserFunction(fn, args, cs, tok)
	case *object.BuiltinFunction:
		normal, ok := e.Registry.Normal[fn.Name]
		if !ok {
			return nil, cs.Undefined(fn.Name, tok)
		}
		return normal.Evaluate(args, tok, cs, e)
	case *object.NativeFunction:
		res, err := fn.Fn(args...)
		if err != nil {
			return nil, err
		}
		return object.Normalize(res), nil
	case []any:
		i, err := singleIndex(args, tok)
		if err != nil {
			return nil, err
		}
		return at(fn, i), nil
	case map[string]any:
		key, err := singleArg[string](args, "string", tok)
		if err != nil {
			return nil, err
		}
		return fn[key], nil
	case string:
		if err := checkCount(args, 1, tok); err != nil {
			return nil, err
		}
		switch arg := args[0].(type) {
		case map[string]any:
			return arg[fn], nil
		case float64:
			i, ok := object.ToInt(arg)
			if ok {
				return charAt(fn, i), nil
			}
		}
		return nil, errdefs.NewArgumentError("String as function expects an object or an integer, got "+object.TypeOf(args[0]).String()+".", tok)
	case float64:
		i, ok := object.ToInt(fn)
		if !ok {
			break
		}
		if err := checkCount(args, 1, tok); err != nil {
			return nil, err
		}
		switch seq := args[0].(type) {
		case []any:
			return at(seq, i), nil
		case string:
			return charAt(seq, i), nil
		}
		return nil, errdefs.NewArgumentError("Number as function expects an array or a string, got "+object.TypeOf(args[0]).String()+".", tok)
	}
	return nil, errdefs.NewNotAFunctionError(object.TypeOf(fn).String(), tok)
}

func (e *Evaluator) executeUserFunction(fn *object.UserFunction, args []any, cs *ContextStack, tok *token.Token) (any, error) {
	for {
		frame, err := bindArguments(fn, args, tok)
		if err != nil {
			return nil, err
		}
		inner := cs.WithContext(frame)
		var result any
		for _, node := range fn.Body {
			result, err = e.EvaluateAstNode(node, inner)
			if err != nil {
				break
			}
		}
		var recur *RecurSignal
		if errors.As(err, &recur) {
			args = recur.Args
			continue
		}
		return result, err
	}
}

func bindArguments(fn *object.UserFunction, args []any, tok *token.Token) (object.Context, error) {
	mandatory := fn.Arguments.Mandatory
	if len(args) < len(mandatory) || (fn.Arguments.Rest == "" && len(args) > len(mandatory)) {
		return nil, errdefs.NewArgumentError("Wrong number of arguments to "+fn.FunctionName()+
			", expected "+strconv.Itoa(len(mandatory))+", got "+strconv.Itoa(len(args))+".", tok)
	}
	frame := make(object.Context, len(mandatory)+1)
	for i, name := range mandatory {
		frame.Set(name, args[i])
	}
	if fn.Arguments.Rest != "" {
		rest := make([]any, len(args)-len(mandatory))
		copy(rest, args[len(mandatory):])
		frame.Set(fn.Arguments.Rest, rest)
	}
	return frame, nil
}

func checkCount(args []any, n int, tok *token.Token) error {
	if len(args) != n {
		return errdefs.NewArgumentError("Wrong number of arguments, expected "+strconv.Itoa(n)+
			", got "+strconv.Itoa(len(args))+".", tok)
	}
	return nil
}

func singleArg[T any](args []any, typeName string, tok *token.Token) (T, error) {
	var zero T
	if err := checkCount(args, 1, tok); err != nil {
		return zero, err
	}
	v, ok := args[0].(T)
	if !ok {
		return zero, errdefs.NewArgumentError("Expected "+typeName+", got "+object.TypeOf(args[0]).String()+".", tok)
	}
	return v, nil
}

func singleIndex(args []any, tok *token.Token) (int, error) {
	f, err := singleArg[float64](args, "integer", tok)
	if err != nil {
		return 0, err
	}
	i, ok := object.ToInt(f)
	if !ok {
		return 0, errdefs.NewArgumentError("Expected integer, got "+object.FormatNumber(f)+".", tok)
	}
	return i, nil
}

// at returns nil when i is out of range.
func at(arr []any, i int) any {
	if i < 0 || i >= len(arr) {
		return nil
	}
	return arr[i]
}

// charAt indexes runes, nil when out of range.
func charAt(s string, i int) any {
	if i < 0 || i >= utf8.RuneCountInString(s) {
		return nil
	}
	return string([]rune(s)[i])
}
