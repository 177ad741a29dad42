package parser

import (
	"strconv"
	"strings"

	"grol.io/lits/ast"
	"grol.io/lits/token"
)

// Sub-grammars shared by the special form parsers.

// FnShorthandName is the special form #(...) desugars to.
const FnShorthandName = "fn"

const maxShorthandArgs = 20

// #(+ %1 %2) is (fn [%1 %2] (+ %1 %2)); % is the same as %1.
func (p *Parser) parseFnShorthand() (ast.Node, error) {
	hash := p.Next()
	if p.inFnShorthand {
		return nil, p.Errorf(hash, "Nested shorthand functions are not allowed.")
	}
	if !p.AtBracket("(") {
		return nil, p.Errorf(hash, "Expected '(' after '#'.")
	}
	p.inFnShorthand = true
	body, err := p.parseExpression()
	p.inFnShorthand = false
	if err != nil {
		return nil, err
	}
	arity := 0
	var walkErr error
	ast.Walk(body, func(n ast.Node) bool {
		name, ok := n.(*ast.Name)
		if !ok || !strings.HasPrefix(name.Value, "%") {
			return true
		}
		if name.Value == "%" {
			name.Value = "%1"
		}
		i, err := strconv.Atoi(name.Value[1:])
		if err != nil || i < 1 || i > maxShorthandArgs {
			if err == nil && walkErr == nil {
				walkErr = p.Errorf(name.Token, "Invalid shorthand argument '"+name.Value+"'.")
			}
			return true
		}
		arity = max(arity, i)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	args := &ast.FunctionArguments{Mandatory: make([]string, 0, arity)}
	for i := 1; i <= arity; i++ {
		args.Mandatory = append(args.Mandatory, "%"+strconv.Itoa(i))
	}
	return &ast.SpecialExpression{
		Base:   ast.Base{Token: hash},
		Name:   FnShorthandName,
		Params: []ast.Node{body},
		Aux:    &ast.Function{Arguments: args},
	}, nil
}

// ParseBinding parses one name value pair.
func (p *Parser) ParseBinding() (*ast.Binding, error) {
	nameTok, err := p.ExpectName()
	if err != nil {
		return nil, err
	}
	if p.AtBracket("]") || p.Peek() == nil {
		return nil, p.Errorf(nameTok, "Missing value for binding '"+nameTok.Value+"'.")
	}
	value, err := p.ParseState()
	if err != nil {
		return nil, err
	}
	return &ast.Binding{Base: ast.Base{Token: nameTok}, Name: nameTok.Value, Value: value}, nil
}

// ParseBindings parses [name1 value1 name2 value2 ...].
func (p *Parser) ParseBindings() (ast.Bindings, error) {
	if _, err := p.ExpectBracket("["); err != nil {
		return nil, err
	}
	bindings := ast.Bindings{}
	for !p.AtBracket("]") {
		b, err := p.ParseBinding()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	p.pos++
	return bindings, nil
}

// ParseFunctionArguments parses [a b & rest].
func (p *Parser) ParseFunctionArguments() (*ast.FunctionArguments, error) {
	if _, err := p.ExpectBracket("["); err != nil {
		return nil, err
	}
	args := &ast.FunctionArguments{Mandatory: []string{}}
	seen := make(map[string]bool)
	for {
		tok := p.Next()
		switch {
		case tok == nil:
			return nil, p.unexpectedEnd()
		case tok.Is(token.Bracket, "]"):
			return args, nil
		case args.Rest != "":
			return nil, p.Errorf(tok, "Nothing can follow the rest argument.")
		case tok.Is(token.Modifier, "&"):
			restTok, err := p.ExpectName()
			if err != nil {
				return nil, err
			}
			if seen[restTok.Value] {
				return nil, p.Errorf(restTok, "Duplicate argument '"+restTok.Value+"'.")
			}
			args.Rest = restTok.Value
		case tok.Kind == token.Name:
			if seen[tok.Value] {
				return nil, p.Errorf(tok, "Duplicate argument '"+tok.Value+"'.")
			}
			seen[tok.Value] = true
			args.Mandatory = append(args.Mandatory, tok.Value)
		default:
			return nil, p.Errorf(tok, "Unexpected '"+tok.Value+"' in argument list.")
		}
	}
}

// ParseLoopBindings parses the bindings of a comprehension:
//
//	[x xs &let [y (* x 2)] &when (odd? y) &while (< y 10) z zs]
//
// Each modifier may appear once per binding and &let must come first.
func (p *Parser) ParseLoopBindings() (ast.LoopBindings, error) {
	open, err := p.ExpectBracket("[")
	if err != nil {
		return nil, err
	}
	res := ast.LoopBindings{}
	for !p.AtBracket("]") {
		binding, err := p.ParseBinding()
		if err != nil {
			return nil, err
		}
		lb := &ast.LoopBinding{Binding: binding}
		for {
			tok := p.Peek()
			if tok == nil || tok.Kind != token.Modifier {
				break
			}
			p.pos++
			switch tok.Value {
			case "&let":
				if lb.Let != nil {
					return nil, p.Errorf(tok, "Duplicate &let modifier.")
				}
				if lb.When != nil || lb.While != nil {
					return nil, p.Errorf(tok, "&let must come before &when and &while.")
				}
				if lb.Let, err = p.ParseBindings(); err != nil {
					return nil, err
				}
			case "&when":
				if lb.When != nil {
					return nil, p.Errorf(tok, "Duplicate &when modifier.")
				}
				if lb.When, err = p.ParseState(); err != nil {
					return nil, err
				}
			case "&while":
				if lb.While != nil {
					return nil, p.Errorf(tok, "Duplicate &while modifier.")
				}
				if lb.While, err = p.ParseState(); err != nil {
					return nil, err
				}
			default:
				return nil, p.Errorf(tok, "Illegal modifier '"+tok.Value+"' in loop bindings.")
			}
		}
		res = append(res, lb)
	}
	p.pos++
	if len(res) == 0 {
		return nil, p.Errorf(open, "Expected at least one loop binding.")
	}
	return res, nil
}
