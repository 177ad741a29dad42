package builtin

import (
	"errors"
	"strconv"

	"grol.io/lits/ast"
	"grol.io/lits/errdefs"
	"grol.io/lits/eval"
	"grol.io/lits/object"
	"grol.io/lits/parser"
	"grol.io/lits/token"
)

type specialEval func(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error)

var specialExpressions = map[string]*eval.SpecialExpression{
	"and":   {Parse: parseParams(0, -1), Evaluate: evalAnd},
	"or":    {Parse: parseParams(0, -1), Evaluate: evalOr},
	"if":    {Parse: parseParams(2, 3), Evaluate: evalIf},
	"when":  {Parse: parseParams(1, -1), Evaluate: evalWhen},
	"cond":  {Parse: parseCond, Evaluate: evalCond},
	"do":    {Parse: parseParams(0, -1), Evaluate: evalDo},
	"def":   {Parse: parseDef, Evaluate: evalDef},
	"defn":  {Parse: parseFunction(true), Evaluate: evalFunction},
	"fn":    {Parse: parseFunction(false), Evaluate: evalFunction},
	"let":   {Parse: parseBindingsForm, Evaluate: evalLet},
	"loop":  {Parse: parseBindingsForm, Evaluate: evalLoop},
	"recur": {Parse: parseParams(0, -1), Evaluate: evalRecur},
	"for":   {Parse: parseFor, Evaluate: evalFor},
	"try":   {Parse: parseTry, Evaluate: evalTry},
}

func special(nameTok *token.Token, params []ast.Node, aux any) *ast.SpecialExpression {
	return &ast.SpecialExpression{Base: ast.Base{Token: nameTok}, Name: nameTok.Value, Params: params, Aux: aux}
}

func arityError(p *parser.Parser, nameTok *token.Token, expected string, got int) error {
	return p.Errorf(nameTok, "Wrong number of arguments to "+nameTok.Value+", expected "+expected+
		", got "+strconv.Itoa(got)+".")
}

// parseParams is the grammar of forms made of plain expressions.
func parseParams(minParams, maxParams int) parser.SpecialParser {
	return func(p *parser.Parser, nameTok *token.Token) (ast.Node, error) {
		params, err := p.ParseUntilClose(")", nameTok)
		if err != nil {
			return nil, err
		}
		if len(params) < minParams || (maxParams != -1 && len(params) > maxParams) {
			expected := strconv.Itoa(minParams)
			switch {
			case maxParams == -1:
				expected = "at least " + expected
			case maxParams != minParams:
				expected += " to " + strconv.Itoa(maxParams)
			}
			return nil, arityError(p, nameTok, expected, len(params))
		}
		return special(nameTok, params, nil), nil
	}
}

func parseCond(p *parser.Parser, nameTok *token.Token) (ast.Node, error) {
	params, err := p.ParseUntilClose(")", nameTok)
	if err != nil {
		return nil, err
	}
	if len(params)%2 != 0 {
		return nil, arityError(p, nameTok, "an even number", len(params))
	}
	return special(nameTok, params, nil), nil
}

// (def name value).
func parseDef(p *parser.Parser, nameTok *token.Token) (ast.Node, error) {
	name, err := p.ExpectName()
	if err != nil {
		return nil, err
	}
	params, err := p.ParseUntilClose(")", nameTok)
	if err != nil {
		return nil, err
	}
	if len(params) != 1 {
		return nil, arityError(p, nameTok, "2", len(params)+1)
	}
	return special(nameTok, params, &ast.Name{Base: ast.Base{Token: name}, Value: name.Value}), nil
}

// (defn name [args] body...) and (fn [args] body...).
func parseFunction(named bool) parser.SpecialParser {
	return func(p *parser.Parser, nameTok *token.Token) (ast.Node, error) {
		f := &ast.Function{}
		if named {
			name, err := p.ExpectName()
			if err != nil {
				return nil, err
			}
			f.Name = name.Value
		}
		var err error
		if f.Arguments, err = p.ParseFunctionArguments(); err != nil {
			return nil, err
		}
		body, err := p.ParseUntilClose(")", nameTok)
		if err != nil {
			return nil, err
		}
		if len(body) == 0 {
			return nil, p.Errorf(nameTok, "Missing body in "+nameTok.Value+".")
		}
		return special(nameTok, body, f), nil
	}
}

// (let [bindings] body...) and (loop [bindings] body...).
func parseBindingsForm(p *parser.Parser, nameTok *token.Token) (ast.Node, error) {
	bindings, err := p.ParseBindings()
	if err != nil {
		return nil, err
	}
	body, err := p.ParseUntilClose(")", nameTok)
	if err != nil {
		return nil, err
	}
	return special(nameTok, body, bindings), nil
}

// (for [loop bindings] body).
func parseFor(p *parser.Parser, nameTok *token.Token) (ast.Node, error) {
	bindings, err := p.ParseLoopBindings()
	if err != nil {
		return nil, err
	}
	body, err := p.ParseUntilClose(")", nameTok)
	if err != nil {
		return nil, err
	}
	if len(body) != 1 {
		return nil, arityError(p, nameTok, "a single body expression", len(body))
	}
	return special(nameTok, body, bindings), nil
}

// (try expr (catch e handler)).
func parseTry(p *parser.Parser, nameTok *token.Token) (ast.Node, error) {
	body, err := p.ParseState()
	if err != nil {
		return nil, err
	}
	open, err := p.ExpectBracket("(")
	if err != nil {
		return nil, err
	}
	catchTok, err := p.ExpectName()
	if err != nil {
		return nil, err
	}
	if catchTok.Value != "catch" {
		return nil, p.Errorf(catchTok, "Expected 'catch', got '"+catchTok.Value+"'.")
	}
	errName, err := p.ExpectName()
	if err != nil {
		return nil, err
	}
	handler, err := p.ParseUntilClose(")", open)
	if err != nil {
		return nil, err
	}
	if len(handler) != 1 {
		return nil, p.Errorf(catchTok, "catch expects a single handler expression.")
	}
	if _, err = p.ExpectBracket(")"); err != nil {
		return nil, err
	}
	return special(nameTok, []ast.Node{body}, &ast.Catch{ErrorName: errName.Value, Body: handler[0]}), nil
}

// evalBody evaluates nodes in order and returns the last value, nil if there are none.
func evalBody(nodes []ast.Node, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	var res any
	for _, n := range nodes {
		v, err := h.EvaluateAstNode(n, cs)
		if err != nil {
			return nil, err
		}
		res = v
	}
	return res, nil
}

// shortCircuit returns the first value for which stop is true, or the last one.
func shortCircuit(empty any, stop func(any) bool) specialEval {
	return func(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
		res := empty
		for _, n := range node.Params {
			v, err := h.EvaluateAstNode(n, cs)
			if err != nil {
				return nil, err
			}
			if stop(v) {
				return v, nil
			}
			res = v
		}
		return res, nil
	}
}

var (
	evalAnd = shortCircuit(true, func(v any) bool { return !object.Truthy(v) })
	evalOr  = shortCircuit(false, object.Truthy)
)

func evalIf(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	cond, err := h.EvaluateAstNode(node.Params[0], cs)
	if err != nil {
		return nil, err
	}
	if object.Truthy(cond) {
		return h.EvaluateAstNode(node.Params[1], cs)
	}
	if len(node.Params) == 3 {
		return h.EvaluateAstNode(node.Params[2], cs)
	}
	return nil, nil
}

func evalWhen(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	cond, err := h.EvaluateAstNode(node.Params[0], cs)
	if err != nil || !object.Truthy(cond) {
		return nil, err
	}
	return evalBody(node.Params[1:], cs, h)
}

func evalCond(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	for i := 0; i < len(node.Params); i += 2 {
		test, err := h.EvaluateAstNode(node.Params[i], cs)
		if err != nil {
			return nil, err
		}
		if object.Truthy(test) {
			return h.EvaluateAstNode(node.Params[i+1], cs)
		}
	}
	return nil, nil
}

func evalDo(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	return evalBody(node.Params, cs, h)
}

func checkDefinable(cs *eval.ContextStack, name string, tok *token.Token) error {
	if cs.Registry() != nil && cs.Registry().IsBuiltin(name) {
		return errdefs.NewNameError(name, "Cannot define '"+name+"', it is a builtin.", tok)
	}
	return nil
}

// def always binds in the global context, whatever the depth it runs at.
func evalDef(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	name := node.Aux.(*ast.Name)
	if err := checkDefinable(cs, name.Value, name.Token); err != nil {
		return nil, err
	}
	v, err := h.EvaluateAstNode(node.Params[0], cs)
	if err != nil {
		return nil, err
	}
	cs.GlobalContext().Set(name.Value, v)
	return v, nil
}

// evalFunction creates the function value of fn, #(...) and defn; the latter
// also binds it globally.
func evalFunction(node *ast.SpecialExpression, cs *eval.ContextStack, _ eval.Helpers) (any, error) {
	f := node.Aux.(*ast.Function)
	fn := &object.UserFunction{Name: f.Name, Arguments: f.Arguments, Body: node.Params}
	if node.Name != "defn" {
		return fn, nil
	}
	if err := checkDefinable(cs, f.Name, node.Token); err != nil {
		return nil, err
	}
	cs.GlobalContext().Set(f.Name, fn)
	return fn, nil
}

// bind evaluates bindings in order into frame; each value sees the previous ones.
func bind(bindings ast.Bindings, frame object.Context, cs *eval.ContextStack, h eval.Helpers) error {
	for _, b := range bindings {
		v, err := h.EvaluateAstNode(b.Value, cs)
		if err != nil {
			return err
		}
		frame.Set(b.Name, v)
	}
	return nil
}

func evalLet(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	frame := object.NewContext()
	inner := cs.WithContext(frame)
	if err := bind(node.Aux.(ast.Bindings), frame, inner, h); err != nil {
		return nil, err
	}
	return evalBody(node.Params, inner, h)
}

// evalLoop runs the body until it completes without recur. Each iteration
// gets a fresh frame so the stack doesn't grow.
func evalLoop(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	bindings := node.Aux.(ast.Bindings)
	frame := object.NewContext()
	if err := bind(bindings, frame, cs.WithContext(frame), h); err != nil {
		return nil, err
	}
	for {
		res, err := evalBody(node.Params, cs.WithContext(frame), h)
		var recur *eval.RecurSignal
		if !errors.As(err, &recur) {
			return res, err
		}
		if len(recur.Args) != len(bindings) {
			return nil, errdefs.NewArgumentError("recur expects "+strconv.Itoa(len(bindings))+
				" arguments, got "+strconv.Itoa(len(recur.Args))+".", recur.Token)
		}
		frame = object.NewContext()
		for i, b := range bindings {
			frame.Set(b.Name, recur.Args[i])
		}
	}
}

func evalRecur(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	args := make([]any, len(node.Params))
	for i, n := range node.Params {
		v, err := h.EvaluateAstNode(n, cs)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return nil, &eval.RecurSignal{Args: args, Token: node.Token}
}

func evalFor(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	res := []any{}
	err := forLevel(node.Aux.(ast.LoopBindings), node.Params[0], cs, h, &res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// forLevel iterates the first binding and recurses into the others, so the
// last binding varies fastest. &when skips an element, &while ends this level.
func forLevel(bindings ast.LoopBindings, body ast.Node, cs *eval.ContextStack, h eval.Helpers, res *[]any) error {
	lb := bindings[0]
	coll, err := h.EvaluateAstNode(lb.Binding.Value, cs)
	if err != nil {
		return err
	}
	elements, err := asArray("for", coll, lb.Binding.Token)
	if err != nil {
		return err
	}
	for _, e := range elements {
		frame := object.NewContext()
		frame.Set(lb.Binding.Name, e)
		inner := cs.WithContext(frame)
		if err = bind(lb.Let, frame, inner, h); err != nil {
			return err
		}
		if lb.When != nil {
			ok, err := h.EvaluateAstNode(lb.When, inner)
			if err != nil {
				return err
			}
			if !object.Truthy(ok) {
				continue
			}
		}
		if lb.While != nil {
			ok, err := h.EvaluateAstNode(lb.While, inner)
			if err != nil {
				return err
			}
			if !object.Truthy(ok) {
				break
			}
		}
		if len(bindings) > 1 {
			if err = forLevel(bindings[1:], body, inner, h, res); err != nil {
				return err
			}
			continue
		}
		v, err := h.EvaluateAstNode(body, inner)
		if err != nil {
			return err
		}
		*res = append(*res, v)
	}
	return nil
}

// evalTry binds the error as {"message" "..."} for the handler. recur
// signals are not errors of the program and go through.
func evalTry(node *ast.SpecialExpression, cs *eval.ContextStack, h eval.Helpers) (any, error) {
	res, err := h.EvaluateAstNode(node.Params[0], cs)
	if err == nil {
		return res, nil
	}
	var recur *eval.RecurSignal
	if errors.As(err, &recur) {
		return nil, err
	}
	msg := err.Error()
	var litsErr errdefs.LitsError
	if errors.As(err, &litsErr) {
		msg = litsErr.ShortMessage()
	}
	c := node.Aux.(*ast.Catch)
	frame := object.NewContext()
	frame.Set(c.ErrorName, map[string]any{"message": msg})
	return h.EvaluateAstNode(c.Body, cs.WithContext(frame))
}
