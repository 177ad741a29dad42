package ast

import "strings"

// Auxiliary structures owned by special forms (SpecialExpression.Aux).

type Binding struct {
	Base
	Name  string
	Value Node
}

type Bindings []*Binding

func (b Bindings) String() string {
	out := strings.Builder{}
	out.WriteString("[")
	for i, binding := range b {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(binding.Name)
		out.WriteString(" ")
		out.WriteString(binding.Value.String())
	}
	out.WriteString("]")
	return out.String()
}

// FunctionArguments is [a b & rest].
type FunctionArguments struct {
	Mandatory []string
	Rest      string // empty when there is no & rest argument.
}

func (f *FunctionArguments) String() string {
	args := append([]string{}, f.Mandatory...)
	if f.Rest != "" {
		args = append(args, "&", f.Rest)
	}
	return "[" + strings.Join(args, " ") + "]"
}

// Function is the Aux of fn and defn; the body is in Params.
type Function struct {
	Name      string // empty for anonymous functions.
	Arguments *FunctionArguments
}

func (f *Function) String() string {
	if f.Name == "" {
		return f.Arguments.String()
	}
	return f.Name + " " + f.Arguments.String()
}

// LoopBinding is one binding of a for comprehension with its modifiers.
type LoopBinding struct {
	Binding *Binding
	Let     Bindings // &let, may be nil.
	When    Node     // &when, may be nil.
	While   Node     // &while, may be nil.
}

type LoopBindings []*LoopBinding

func (l LoopBindings) String() string {
	out := strings.Builder{}
	out.WriteString("[")
	for i, lb := range l {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(lb.Binding.Name + " " + lb.Binding.Value.String())
		if lb.Let != nil {
			out.WriteString(" &let " + lb.Let.String())
		}
		if lb.When != nil {
			out.WriteString(" &when " + lb.When.String())
		}
		if lb.While != nil {
			out.WriteString(" &while " + lb.While.String())
		}
	}
	out.WriteString("]")
	return out.String()
}

// Catch is the Aux of try: (try body (catch e handler)).
type Catch struct {
	ErrorName string
	Body      Node
}

func (c *Catch) String() string {
	return "(catch " + c.ErrorName + " " + c.Body.String() + ")"
}
