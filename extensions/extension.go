// Package extensions maps some Go functions to lits native functions, for
// hosts (like the lits command line) that want more than the builtins.
// Same mechanism can be used to expose any other Go function.
package extensions

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"grol.io/lits/object"
)

type Config struct {
	Out io.Writer // print and println output, os.Stdout when nil.
}

// Values are the constants defined along the functions. Uppercase so e isn't taken.
func Values() map[string]any {
	return map[string]any{
		"PI": math.Pi,
		"E":  math.E,
	}
}

type OneFloatInOutFunc func(float64) float64

// NativeFunctions returns a new set of functions, to pass in lits.Params.
func NativeFunctions(c *Config) map[string]*object.NativeFunction {
	if c == nil {
		c = &Config{}
	}
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	res := map[string]*object.NativeFunction{
		"pow":     {Fn: pow},
		"sprintf": {Fn: sprintf},
		"print": {Fn: func(args ...any) (any, error) {
			_, err := io.WriteString(out, join(args))
			return nil, err
		}},
		"println": {Fn: func(args ...any) (any, error) {
			_, err := io.WriteString(out, join(args)+"\n")
			return nil, err
		}},
	}
	for _, function := range []struct {
		fn   OneFloatInOutFunc
		name string
	}{
		{math.Sin, "sin"},
		{math.Cos, "cos"},
		{math.Tan, "tan"},
		{math.Log, "ln"},
		{math.Sqrt, "sqrt"},
		{math.Exp, "exp"},
		{math.Asin, "asin"},
		{math.Acos, "acos"},
		{math.Atan, "atan"},
		{math.Round, "round"},
		{math.Trunc, "trunc"},
		{math.Floor, "floor"},
		{math.Ceil, "ceil"},
		{math.Log10, "log10"},
		{math.Abs, "abs"},
	} {
		res[function.name] = &object.NativeFunction{
			Fn: func(args ...any) (any, error) {
				x, err := floatArgs(function.name, 1, args)
				if err != nil {
					return nil, err
				}
				return function.fn(x[0]), nil
			},
		}
	}
	for name, fn := range res {
		fn.Name = name
	}
	return res
}

func floatArgs(name string, n int, args []any) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", name, n, len(args))
	}
	res := make([]float64, n)
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d is a %s, not a number", name, i+1, object.TypeOf(a))
		}
		res[i] = f
	}
	return res, nil
}

func pow(args ...any) (any, error) {
	x, err := floatArgs("pow", 2, args)
	if err != nil {
		return nil, err
	}
	return math.Pow(x[0], x[1]), nil
}

// sprintf formats integral numbers as integers so %d works.
func sprintf(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("sprintf: missing format")
	}
	format, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("sprintf: format is a %s, not a string", object.TypeOf(args[0]))
	}
	values := make([]any, len(args)-1)
	for i, a := range args[1:] {
		if n, ok := object.ToInt(a); ok {
			values[i] = n
			continue
		}
		values[i] = a
	}
	return fmt.Sprintf(format, values...), nil
}

func join(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = object.String(a)
	}
	return strings.Join(parts, " ")
}
