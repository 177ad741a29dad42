package builtin

import (
	"cmp"

	"grol.io/lits/eval"
	"grol.io/lits/object"
	"grol.io/lits/token"
)

func allEqual(args []any) bool {
	for _, a := range args[1:] {
		if !object.Equal(args[0], a) {
			return false
		}
	}
	return true
}

// compareChain checks ok(compare(a, b)) for every consecutive pair of
// numbers or strings.
func compareChain(name string, ok func(int) bool) normalFunc {
	return func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		for i := 1; i < len(args); i++ {
			var c int
			switch a := args[i-1].(type) {
			case float64:
				b, err := asNumber(name, args[i], tok)
				if err != nil {
					return nil, err
				}
				c = cmp.Compare(a, b)
			case string:
				b, isString := args[i].(string)
				if !isString {
					return nil, typeError(name, "a string", args[i], tok)
				}
				c = cmp.Compare(a, b)
			default:
				return nil, typeError(name, "a number or a string", a, tok)
			}
			if !ok(c) {
				return false, nil
			}
		}
		return true, nil
	}
}

var comparisonExpressions = map[string]normal{
	"=": {1, -1, func(args []any, _ *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		return allEqual(args), nil
	}},
	"not=": {1, -1, func(args []any, _ *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		return !allEqual(args), nil
	}},
	"<":  {1, -1, compareChain("<", func(c int) bool { return c < 0 })},
	">":  {1, -1, compareChain(">", func(c int) bool { return c > 0 })},
	"<=": {1, -1, compareChain("<=", func(c int) bool { return c <= 0 })},
	">=": {1, -1, compareChain(">=", func(c int) bool { return c >= 0 })},
	"not": {1, 1, func(args []any, _ *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		return !object.Truthy(args[0]), nil
	}},
}
