// Package parser builds the AST from the token stream in a single forward
// pass. Special forms own their sub-grammar: a Grammar maps form names to the
// function parsing the rest of the form.
package parser

import (
	"strconv"
	"strings"

	"fortio.org/log"
	"grol.io/lits/ast"
	"grol.io/lits/errdefs"
	"grol.io/lits/token"
)

// SpecialParser parses a special form. It is called with the parser
// positioned right after the form name (nameTok) and must consume everything
// up to and including the closing parenthesis.
type SpecialParser func(p *Parser, nameTok *token.Token) (ast.Node, error)

type Grammar map[string]SpecialParser

type Parser struct {
	tokens  []*token.Token
	pos     int
	grammar Grammar
	// inside #(...), where % arguments are bound and nesting is not allowed.
	inFnShorthand bool
}

func New(tokens []*token.Token, grammar Grammar) *Parser {
	return &Parser{tokens: tokens, grammar: grammar}
}

// Parse returns the program for tokens or the first ParseError.
func Parse(tokens []*token.Token, grammar Grammar) (*ast.Program, error) {
	return New(tokens, grammar).ParseProgram()
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{Body: []ast.Node{}}
	for p.pos < len(p.tokens) {
		if tok := p.tokens[p.pos]; tok.Kind == token.Comment {
			program.Body = append(program.Body, &ast.Comment{Base: ast.Base{Token: tok}, Value: tok.Value})
			p.pos++
			continue
		}
		node, err := p.ParseState()
		if err != nil {
			return nil, err
		}
		program.Body = append(program.Body, node)
	}
	log.LogVf("Parsed %d tokens into %d top level nodes", len(p.tokens), len(program.Body))
	return program, nil
}

// Peek returns the current token without consuming it, nil at the end.
// Comments inside expressions are skipped.
func (p *Parser) Peek() *token.Token {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Kind == token.Comment {
		p.pos++
	}
	if p.pos >= len(p.tokens) {
		return nil
	}
	return p.tokens[p.pos]
}

// Next consumes and returns the current token, nil at the end.
func (p *Parser) Next() *token.Token {
	tok := p.Peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *Parser) lastToken() *token.Token {
	if len(p.tokens) == 0 {
		return nil
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) Errorf(tok *token.Token, msg string) *errdefs.ParseError {
	return errdefs.NewParseError(msg, tok)
}

func (p *Parser) unexpectedEnd() *errdefs.ParseError {
	return p.Errorf(p.lastToken(), "Unexpected end of input.")
}

// ExpectBracket consumes the bracket token value or fails.
func (p *Parser) ExpectBracket(value string) (*token.Token, error) {
	tok := p.Next()
	if tok == nil {
		return nil, p.unexpectedEnd()
	}
	if !tok.Is(token.Bracket, value) {
		return nil, p.Errorf(tok, "Expected '"+value+"', got '"+tok.Value+"'.")
	}
	return tok, nil
}

// ExpectName consumes a name token or fails.
func (p *Parser) ExpectName() (*token.Token, error) {
	tok := p.Next()
	if tok == nil {
		return nil, p.unexpectedEnd()
	}
	if tok.Kind != token.Name {
		return nil, p.Errorf(tok, "Expected a name, got "+tok.Kind.String()+" '"+tok.Value+"'.")
	}
	return tok, nil
}

// AtBracket is true when the current token is the given bracket.
func (p *Parser) AtBracket(value string) bool {
	return p.Peek().Is(token.Bracket, value)
}

// ParseUntilClose parses expressions until the closing bracket, which is consumed.
// open is the opening token, used to report unterminated expressions.
func (p *Parser) ParseUntilClose(closing string, open *token.Token) ([]ast.Node, error) {
	nodes := []ast.Node{}
	for {
		tok := p.Peek()
		if tok == nil {
			return nil, p.Errorf(open, "Unterminated expression, missing '"+closing+"'.")
		}
		if tok.Is(token.Bracket, closing) {
			p.pos++
			return nodes, nil
		}
		node, err := p.ParseState()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

// ParseState parses one expression, including trailing collection accessors.
func (p *Parser) ParseState() (ast.Node, error) {
	node, err := p.parseOne()
	if err != nil {
		return nil, err
	}
	return p.parseAccessors(node)
}

func (p *Parser) parseOne() (ast.Node, error) {
	tok := p.Peek()
	if tok == nil {
		return nil, p.unexpectedEnd()
	}
	base := ast.Base{Token: tok}
	switch tok.Kind {
	case token.Number:
		p.pos++
		return p.parseNumber(tok)
	case token.String:
		p.pos++
		return &ast.String{Base: base, Value: tok.Value}, nil
	case token.Name:
		p.pos++
		return &ast.Name{Base: base, Value: tok.Value}, nil
	case token.ReservedName:
		p.pos++
		return &ast.ReservedName{Base: base, Value: tok.Value}, nil
	case token.Modifier:
		return nil, p.Errorf(tok, "Unexpected modifier '"+tok.Value+"'.")
	case token.Bracket:
		switch tok.Value {
		case "(":
			return p.parseExpression()
		case "[":
			return p.parseCollection("]", "array")
		case "{":
			return p.parseCollection("}", "object")
		}
		return nil, p.Errorf(tok, "Unexpected '"+tok.Value+"'.")
	case token.RegexpShorthand:
		p.pos++
		return p.parseRegexpShorthand(tok), nil
	case token.FnShorthand:
		return p.parseFnShorthand()
	case token.CollectionAccessor, token.Comment:
	}
	return nil, p.Errorf(tok, "Unexpected token "+tok.DebugString()+".")
}

func isRadix(lit string) bool {
	lit = strings.TrimPrefix(lit, "-")
	return len(lit) > 1 && lit[0] == '0' && strings.IndexByte("box", lit[1]) >= 0
}

func (p *Parser) parseNumber(tok *token.Token) (ast.Node, error) {
	var value float64
	if isRadix(tok.Value) {
		i, err := strconv.ParseInt(tok.Value, 0, 64)
		if err != nil {
			return nil, p.Errorf(tok, "Invalid number '"+tok.Value+"'.")
		}
		value = float64(i)
	} else {
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.Errorf(tok, "Invalid number '"+tok.Value+"'.")
		}
		value = f
	}
	return &ast.Number{Base: ast.Base{Token: tok}, Value: value}, nil
}

// parseExpression handles ( ... ): special forms, calls by name and calls of
// an arbitrary expression.
func (p *Parser) parseExpression() (ast.Node, error) {
	open := p.Next()
	head := p.Peek()
	if head == nil {
		return nil, p.Errorf(open, "Unterminated expression, missing ')'.")
	}
	if head.Is(token.Bracket, ")") {
		return nil, p.Errorf(open, "Empty expression '()'.")
	}
	if head.Kind == token.Name {
		p.pos++
		if special, ok := p.grammar[head.Value]; ok {
			log.Debugf("Parsing special expression %q", head.Value)
			return special(p, head)
		}
		callee, err := p.parseAccessors(&ast.Name{Base: ast.Base{Token: head}, Value: head.Value})
		if err != nil {
			return nil, err
		}
		params, err := p.ParseUntilClose(")", open)
		if err != nil {
			return nil, err
		}
		// (o.f 1) calls the accessed value.
		if _, isName := callee.(*ast.Name); !isName {
			return &ast.NormalExpression{Base: ast.Base{Token: head}, Callee: callee, Params: params}, nil
		}
		return &ast.NormalExpression{Base: ast.Base{Token: head}, Name: head.Value, Params: params}, nil
	}
	callee, err := p.ParseState()
	if err != nil {
		return nil, err
	}
	params, err := p.ParseUntilClose(")", open)
	if err != nil {
		return nil, err
	}
	return &ast.NormalExpression{Base: ast.Base{Token: open}, Callee: callee, Params: params}, nil
}

// [a b] is (array a b) and {k v} is (object k v).
func (p *Parser) parseCollection(closing, builtin string) (ast.Node, error) {
	open := p.Next()
	params, err := p.ParseUntilClose(closing, open)
	if err != nil {
		return nil, err
	}
	if builtin == "object" && len(params)%2 != 0 {
		return nil, p.Errorf(open, "Object literal needs an even number of forms.")
	}
	return &ast.NormalExpression{Base: ast.Base{Token: open}, Name: builtin, Params: params}, nil
}

// #"pattern"gi is (regexp "pattern" "gi").
func (p *Parser) parseRegexpShorthand(tok *token.Token) ast.Node {
	flags := ""
	if tok.Options.Global {
		flags += "g"
	}
	if tok.Options.IgnoreCase {
		flags += "i"
	}
	base := ast.Base{Token: tok}
	return &ast.NormalExpression{
		Base:   base,
		Name:   "regexp",
		Params: []ast.Node{&ast.String{Base: base, Value: tok.Value}, &ast.String{Base: base, Value: flags}},
	}
}

// parseAccessors wraps node for each trailing .name or #index: foo#1.a is
// (get (get foo 1) "a").
func (p *Parser) parseAccessors(node ast.Node) (ast.Node, error) {
	for {
		tok := p.Peek()
		if tok == nil || tok.Kind != token.CollectionAccessor {
			return node, nil
		}
		p.pos++
		keyTok := p.Next()
		if keyTok == nil {
			return nil, p.unexpectedEnd()
		}
		var key ast.Node
		switch {
		case tok.Value == "." && keyTok.Kind == token.Name:
			key = &ast.String{Base: ast.Base{Token: keyTok}, Value: keyTok.Value}
		case tok.Value == "#" && keyTok.Kind == token.Number:
			num, err := p.parseNumber(keyTok)
			if err != nil {
				return nil, err
			}
			key = num
		default:
			return nil, p.Errorf(keyTok, "Invalid collection accessor '"+tok.Value+keyTok.Value+"'.")
		}
		node = &ast.NormalExpression{Base: ast.Base{Token: tok}, Name: "get", Params: []ast.Node{node, key}}
	}
}
