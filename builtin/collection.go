package builtin

import (
	"unicode/utf8"

	"grol.io/lits/eval"
	"grol.io/lits/object"
	"grol.io/lits/token"
)

var collectionExpressions = map[string]normal{
	"array": {0, -1, func(args []any, _ *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		return append([]any{}, args...), nil
	}},
	"object": {0, -1, func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		if len(args)%2 != 0 {
			return nil, typeError("object", "an even number of arguments", args[len(args)-1], tok)
		}
		res := make(map[string]any, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			key, ok := args[i].(string)
			if !ok {
				return nil, typeError("object", "string keys", args[i], tok)
			}
			res[key] = args[i+1]
		}
		return res, nil
	}},
	"get":   {2, 3, get},
	"nth":   {2, 3, get},
	"count": {1, 1, count},
	"first": {1, 1, func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		return lookup(args[0], 0., nil, "first", tok)
	}},
	"rest": {1, 1, func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		arr, err := asArray("rest", args[0], tok)
		if err != nil || len(arr) == 0 {
			return []any{}, err
		}
		return append([]any{}, arr[1:]...), nil
	}},
	"map":    {2, -1, mapFunc},
	"filter": {2, 2, filter},
	"reduce": {2, 3, reduce},
	"apply": {2, 2, func(args []any, tok *token.Token, cs *eval.ContextStack, h eval.Helpers) (any, error) {
		params, err := asArray("apply", args[1], tok)
		if err != nil {
			return nil, err
		}
		return h.ExecuteFunction(args[0], params, cs, tok)
	}},
}

// (get coll key [default]) for arrays and strings (integer key) and objects (string key).
func get(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
	var def any
	if len(args) == 3 {
		def = args[2]
	}
	return lookup(args[0], args[1], def, "get", tok)
}

func lookup(coll, key, def any, name string, tok *token.Token) (any, error) {
	var res any
	switch c := coll.(type) {
	case nil:
	case []any:
		i, err := asInteger(name, key, tok)
		if err != nil {
			return nil, err
		}
		if i >= 0 && i < len(c) {
			res = c[i]
		}
	case string:
		i, err := asInteger(name, key, tok)
		if err != nil {
			return nil, err
		}
		if i >= 0 && i < utf8.RuneCountInString(c) {
			res = string([]rune(c)[i])
		}
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return nil, typeError(name, "a string key", key, tok)
		}
		v, found := c[k]
		if !found {
			return def, nil
		}
		res = v
	default:
		return nil, typeError(name, "a collection", coll, tok)
	}
	if res == nil {
		return def, nil
	}
	return res, nil
}

func count(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
	switch c := args[0].(type) {
	case nil:
		return 0., nil
	case []any:
		return float64(len(c)), nil
	case string:
		return float64(utf8.RuneCountInString(c)), nil
	case map[string]any:
		return float64(len(c)), nil
	}
	return nil, typeError("count", "a collection", args[0], tok)
}

// (map f coll1 coll2 ...) stops at the shortest collection.
func mapFunc(args []any, tok *token.Token, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	colls := make([][]any, len(args)-1)
	n := -1
	for i, a := range args[1:] {
		arr, err := asArray("map", a, tok)
		if err != nil {
			return nil, err
		}
		colls[i] = arr
		if n == -1 || len(arr) < n {
			n = len(arr)
		}
	}
	res := make([]any, 0, n)
	for i := range n {
		params := make([]any, len(colls))
		for j, c := range colls {
			params[j] = c[i]
		}
		v, err := h.ExecuteFunction(args[0], params, cs, tok)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

func filter(args []any, tok *token.Token, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	arr, err := asArray("filter", args[1], tok)
	if err != nil {
		return nil, err
	}
	res := []any{}
	for _, e := range arr {
		keep, err := h.ExecuteFunction(args[0], []any{e}, cs, tok)
		if err != nil {
			return nil, err
		}
		if object.Truthy(keep) {
			res = append(res, e)
		}
	}
	return res, nil
}

// (reduce f coll) or (reduce f initial coll).
func reduce(args []any, tok *token.Token, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	arr, err := asArray("reduce", args[len(args)-1], tok)
	if err != nil {
		return nil, err
	}
	var acc any
	if len(args) == 3 {
		acc = args[1]
	} else {
		if len(arr) == 0 {
			return h.ExecuteFunction(args[0], nil, cs, tok)
		}
		acc, arr = arr[0], arr[1:]
	}
	for _, e := range arr {
		acc, err = h.ExecuteFunction(args[0], []any{acc, e}, cs, tok)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
