package object

import (
	"regexp"

	"grol.io/lits/ast"
)

// Function is the closed set of declared function values: *UserFunction,
// *BuiltinFunction and *NativeFunction. Arrays, objects, strings and
// integers are callable too but aren't Functions.
type Function interface {
	FunctionName() string
	function()
}

// UserFunction is created by fn, defn and #(...). It doesn't capture its
// defining scope: a call pushes the arguments frame onto the caller's stack.
type UserFunction struct {
	Name      string // empty for anonymous functions.
	Arguments *ast.FunctionArguments
	Body      []ast.Node
}

func (f *UserFunction) FunctionName() string {
	if f.Name == "" {
		return "λ"
	}
	return f.Name
}

func (*UserFunction) function() {}

// BuiltinFunction is a builtin normal expression used as a value, e.g. (map + ...).
type BuiltinFunction struct {
	Name string
}

func (f *BuiltinFunction) FunctionName() string { return f.Name }
func (*BuiltinFunction) function()              {}

// NativeFunction is implemented by the host.
type NativeFunction struct {
	Name string
	Fn   func(args ...any) (any, error)
}

func (f *NativeFunction) FunctionName() string { return f.Name }
func (*NativeFunction) function()              {}

type RegularExpression struct {
	Source string
	Flags  string // "", "g", "i" or "gi".
	Re     *regexp.Regexp
}

// NewRegularExpression compiles source; the i flag makes it case insensitive,
// g is kept for the functions that replace or match all occurrences.
func NewRegularExpression(source, flags string) (*RegularExpression, error) {
	expr := source
	for _, f := range flags {
		if f == 'i' {
			expr = "(?i)" + expr
		}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RegularExpression{Source: source, Flags: flags, Re: re}, nil
}

func (r *RegularExpression) Global() bool {
	for _, f := range r.Flags {
		if f == 'g' {
			return true
		}
	}
	return false
}
