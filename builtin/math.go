package builtin

import (
	"math"

	"grol.io/lits/eval"
	"grol.io/lits/object"
	"grol.io/lits/token"
)

func fold(name string, initial float64, op func(acc, x float64) float64) normalFunc {
	return func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		nums, err := numbers(name, args, tok)
		if err != nil {
			return nil, err
		}
		switch len(nums) {
		case 0:
			return initial, nil
		case 1:
			return op(initial, nums[0]), nil
		}
		acc := nums[0]
		for _, x := range nums[1:] {
			acc = op(acc, x)
		}
		return acc, nil
	}
}

func unary(name string, op func(float64) float64) normalFunc {
	return func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		x, err := asNumber(name, args[0], tok)
		if err != nil {
			return nil, err
		}
		return op(x), nil
	}
}

var mathExpressions = map[string]normal{
	// (+) is 0, (- x) is -x and (/ x) is 1/x.
	"+": {0, -1, fold("+", 0, func(a, x float64) float64 { return a + x })},
	"-": {0, -1, fold("-", 0, func(a, x float64) float64 { return a - x })},
	"*": {0, -1, fold("*", 1, func(a, x float64) float64 { return a * x })},
	"/": {0, -1, fold("/", 1, func(a, x float64) float64 { return a / x })},
	"mod": {2, 2, func(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
		nums, err := numbers("mod", args, tok)
		if err != nil {
			return nil, err
		}
		// sign of the divisor, like floored division.
		r := math.Mod(nums[0], nums[1])
		if r != 0 && (r < 0) != (nums[1] < 0) {
			r += nums[1]
		}
		return r, nil
	}},
	"inc":   {1, 1, unary("inc", func(x float64) float64 { return x + 1 })},
	"dec":   {1, 1, unary("dec", func(x float64) float64 { return x - 1 })},
	"range": {1, 3, rangeFunc},
}

// (range end), (range start end), (range start end step).
func rangeFunc(args []any, tok *token.Token, _ *eval.ContextStack, _ eval.Helpers) (any, error) {
	nums, err := numbers("range", args, tok)
	if err != nil {
		return nil, err
	}
	start, end, step := 0., nums[0], 1.
	if len(nums) > 1 {
		start, end = nums[0], nums[1]
		if end < start {
			step = -1
		}
	}
	if len(nums) > 2 {
		step = nums[2]
	}
	if step == 0 || math.IsNaN(step) || math.IsInf(end-start, 0) {
		return nil, typeError("range", "a finite non zero step", step, tok)
	}
	n := max(0, math.Ceil((end-start)/step))
	count, ok := object.ToInt(n)
	if !ok {
		return nil, typeError("range", "a finite range", n, tok)
	}
	res, err := object.MakeArray(count)
	if err != nil {
		return nil, err
	}
	for i := range count {
		res = append(res, start+float64(i)*step)
	}
	return res, nil
}
