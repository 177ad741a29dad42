package eval

import (
	"grol.io/lits/ast"
	"grol.io/lits/parser"
	"grol.io/lits/token"
)

// Helpers is what builtins get to evaluate nodes and call function values.
// *Evaluator implements it.
type Helpers interface {
	EvaluateAstNode(node ast.Node, cs *ContextStack) (any, error)
	ExecuteFunction(fn any, args []any, cs *ContextStack, tok *token.Token) (any, error)
}

// NormalExpression is a builtin called with already evaluated arguments.
type NormalExpression struct {
	Evaluate func(args []any, tok *token.Token, cs *ContextStack, h Helpers) (any, error)
}

// SpecialExpression is a builtin form that decides itself what to evaluate,
// when, and in which order. Parse is its sub-grammar.
type SpecialExpression struct {
	Parse    parser.SpecialParser
	Evaluate func(node *ast.SpecialExpression, cs *ContextStack, h Helpers) (any, error)
}

// Registry is the name keyed catalog of builtins the evaluator runs against.
type Registry struct {
	Normal  map[string]*NormalExpression
	Special map[string]*SpecialExpression
}

// Grammar returns the parser's special form table, so each form's grammar
// and evaluation are registered together.
func (r *Registry) Grammar() parser.Grammar {
	g := make(parser.Grammar, len(r.Special))
	for name, s := range r.Special {
		if s.Parse != nil {
			g[name] = s.Parse
		}
	}
	return g
}

// IsBuiltin is true for names of builtin normal or special expressions.
func (r *Registry) IsBuiltin(name string) bool {
	_, normal := r.Normal[name]
	_, special := r.Special[name]
	return normal || special
}
