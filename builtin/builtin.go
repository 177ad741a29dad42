// Package builtin is a small registry of normal and special expressions the
// evaluator runs against. It covers arithmetic, comparison, a few collection
// and string functions, and the core special forms (and, or, if, cond, let,
// def, defn, fn, loop/recur, for, try).
package builtin

import (
	"strconv"

	"grol.io/lits/errdefs"
	"grol.io/lits/eval"
	"grol.io/lits/object"
	"grol.io/lits/token"
)

type normalFunc func(args []any, tok *token.Token, cs *eval.ContextStack, h eval.Helpers) (any, error)

var registry = newRegistry()

// Registry returns the builtin catalog. It must not be modified.
func Registry() *eval.Registry {
	return registry
}

func newRegistry() *eval.Registry {
	r := &eval.Registry{
		Normal:  make(map[string]*eval.NormalExpression),
		Special: make(map[string]*eval.SpecialExpression),
	}
	for _, group := range []map[string]normal{mathExpressions, comparisonExpressions, collectionExpressions, miscExpressions} {
		for name, n := range group {
			r.Normal[name] = n.expression(name)
		}
	}
	for name, s := range specialExpressions {
		r.Special[name] = s
	}
	return r
}

// normal describes a builtin normal expression with its arity, checked
// before fn is called. maxArgs -1 is variadic.
type normal struct {
	minArgs, maxArgs int
	fn               normalFunc
}

func (n normal) expression(name string) *eval.NormalExpression {
	return &eval.NormalExpression{
		Evaluate: func(args []any, tok *token.Token, cs *eval.ContextStack, h eval.Helpers) (any, error) {
			if err := checkArity(name, args, n.minArgs, n.maxArgs, tok); err != nil {
				return nil, err
			}
			return n.fn(args, tok, cs, h)
		},
	}
}

func checkArity(name string, args []any, minArgs, maxArgs int, tok *token.Token) error {
	if len(args) >= minArgs && (maxArgs == -1 || len(args) <= maxArgs) {
		return nil
	}
	expected := strconv.Itoa(minArgs)
	switch {
	case maxArgs == -1:
		expected = "at least " + expected
	case maxArgs != minArgs:
		expected += " to " + strconv.Itoa(maxArgs)
	}
	return errdefs.NewArgumentError("Wrong number of arguments to "+name+", expected "+expected+
		", got "+strconv.Itoa(len(args))+".", tok)
}

func typeError(name, expected string, v any, tok *token.Token) error {
	return errdefs.NewArgumentError(name+" expects "+expected+", got "+object.TypeOf(v).String()+".", tok)
}

func asNumber(name string, v any, tok *token.Token) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, typeError(name, "a number", v, tok)
	}
	return f, nil
}

func asInteger(name string, v any, tok *token.Token) (int, error) {
	i, ok := object.ToInt(v)
	if !ok {
		return 0, typeError(name, "an integer", v, tok)
	}
	return i, nil
}

func asArray(name string, v any, tok *token.Token) ([]any, error) {
	switch v := v.(type) {
	case []any:
		return v, nil
	case nil:
		return nil, nil
	case string:
		res := make([]any, 0, len(v))
		for _, r := range v {
			res = append(res, string(r))
		}
		return res, nil
	}
	return nil, typeError(name, "an array", v, tok)
}

func numbers(name string, args []any, tok *token.Token) ([]float64, error) {
	res := make([]float64, len(args))
	for i, a := range args {
		f, err := asNumber(name, a, tok)
		if err != nil {
			return nil, err
		}
		res[i] = f
	}
	return res, nil
}
