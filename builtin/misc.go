package builtin

import (
	"strings"

	"grol.io/lits/errdefs"
	"grol.io/lits/eval"
	"grol.io/lits/object"
	"grol.io/lits/token"
)

var miscExpressions = map[string]normal{
	"identity": {1, 1, func(args []any, _ *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		return args[0], nil
	}},
	"str": {0, -1, func(args []any, _ *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		out := strings.Builder{}
		for _, a := range args {
			if a != nil {
				out.WriteString(object.String(a))
			}
		}
		return out.String(), nil
	}},
	"regexp": {1, 2, func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		source, ok := args[0].(string)
		if !ok {
			return nil, typeError("regexp", "a string", args[0], tok)
		}
		flags := ""
		if len(args) == 2 {
			if flags, ok = args[1].(string); !ok {
				return nil, typeError("regexp", "a string of flags", args[1], tok)
			}
		}
		if strings.Trim(flags, "gi") != "" || strings.Count(flags, "g") > 1 || strings.Count(flags, "i") > 1 {
			return nil, errdefs.NewArgumentError("Invalid regexp flags '"+flags+"'.", tok)
		}
		re, err := object.NewRegularExpression(source, flags)
		if err != nil {
			return nil, errdefs.NewArgumentError("Invalid regexp: "+err.Error(), tok)
		}
		return re, nil
	}},
	// (match re s) is nil or [whole-match group1 ...].
	"match": {2, 2, func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		re, ok := args[0].(*object.RegularExpression)
		if !ok {
			return nil, typeError("match", "a regexp", args[0], tok)
		}
		s, ok := args[1].(string)
		if !ok {
			return nil, typeError("match", "a string", args[1], tok)
		}
		m := re.Re.FindStringSubmatch(s)
		if m == nil {
			return nil, nil
		}
		res := make([]any, len(m))
		for i, g := range m {
			res[i] = g
		}
		return res, nil
	}},
	"assert": {1, 2, func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		if object.Truthy(args[0]) {
			return args[0], nil
		}
		msg := "Assertion failed: " + object.Inspect(args[0]) + " is falsy."
		if len(args) == 2 {
			msg = object.String(args[1])
		}
		return nil, errdefs.NewAssertionError(msg, tok)
	}},
	"throw": {1, 1, func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		return nil, errdefs.NewUserError(object.String(args[0]), tok)
	}},
}
