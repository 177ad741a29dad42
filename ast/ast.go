// Package ast defines the typed syntax tree produced by the parser.
// A Program is an ordered list of top level nodes, evaluated in sequence.
package ast

import (
	"strconv"
	"strings"

	"grol.io/lits/token"
)

type Node interface {
	Tok() *token.Token // originating token, for error locations (debug info).
	String() string    // normalized s-expression form.
}

// Common to all nodes that have a token and avoids repeating the same Tok() methods.
type Base struct {
	Token *token.Token
}

func (b Base) Tok() *token.Token {
	return b.Token
}

type Number struct {
	Base
	Value float64
}

func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// String is also what :keyword shorthands become.
type String struct {
	Base
	Value string
}

func (s *String) String() string {
	return strconv.Quote(s.Value)
}

type Name struct {
	Base
	Value string
}

func (n *Name) String() string {
	return n.Value
}

// ReservedName is one of nil, true or false.
type ReservedName struct {
	Base
	Value string
}

func (r *ReservedName) String() string {
	return r.Value
}

type Comment struct {
	Base
	Value string
}

func (c *Comment) String() string {
	return c.Value
}

// NormalExpression is a call whose arguments are evaluated before the call.
// Either Name (call by identifier) or Callee (any expression producing a
// callable, e.g. ((fn [x] x) 1) or ([1 2] 0)) is set.
type NormalExpression struct {
	Base
	Name   string
	Callee Node
	Params []Node
}

func (n *NormalExpression) String() string {
	out := strings.Builder{}
	out.WriteString("(")
	if n.Callee != nil {
		out.WriteString(n.Callee.String())
	} else {
		out.WriteString(n.Name)
	}
	writeNodes(&out, n.Params)
	out.WriteString(")")
	return out.String()
}

// SpecialExpression is a form that controls the evaluation of its own
// parameters. Aux holds the form specific structure (bindings, arguments...)
// and its shape is defined by the form's parser.
type SpecialExpression struct {
	Base
	Name   string
	Params []Node
	Aux    any
}

func (s *SpecialExpression) String() string {
	out := strings.Builder{}
	out.WriteString("(")
	out.WriteString(s.Name)
	c, isCatch := s.Aux.(*Catch)
	if st, ok := s.Aux.(interface{ String() string }); ok && !isCatch {
		out.WriteString(" ")
		out.WriteString(st.String())
	}
	writeNodes(&out, s.Params)
	if isCatch {
		out.WriteString(" ")
		out.WriteString(c.String())
	}
	out.WriteString(")")
	return out.String()
}

func writeNodes(out *strings.Builder, nodes []Node) {
	for _, p := range nodes {
		out.WriteString(" ")
		out.WriteString(p.String())
	}
}

type Program struct {
	Body []Node
}

func (p *Program) String() string {
	if len(p.Body) == 0 {
		return "<empty>"
	}
	buf := strings.Builder{}
	for i, s := range p.Body {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(s.String())
	}
	return buf.String()
}
