package lits_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"grol.io/lits/ast"
	"grol.io/lits/errdefs"
	"grol.io/lits/eval"
	"grol.io/lits/lits"
	"grol.io/lits/object"
	"grol.io/lits/token"
)

func newLits(t *testing.T, config lits.Config) *lits.Lits {
	t.Helper()
	l, err := lits.New(config)
	require.NoError(t, err)
	return l
}

func TestRunAddition(t *testing.T) {
	l := newLits(t, lits.Config{})
	res, err := l.Run("(+ 1 2)", lits.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 3., res, 0)
}

func TestUndefinedSymbol(t *testing.T) {
	l := newLits(t, lits.Config{Debug: true})
	_, err := l.Run("(let [a 10] (+ a b))", lits.Params{})
	var undef *errdefs.UndefinedSymbolError
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, "b", undef.Symbol)
	require.NotNil(t, undef.DebugInfo())
	assert.Equal(t, 1, undef.DebugInfo().Line)
	assert.Equal(t, 18, undef.DebugInfo().Column)
}

func TestDefMakesSymbolDefined(t *testing.T) {
	l := newLits(t, lits.Config{})
	_, err := l.Run("foo", lits.Params{})
	var undef *errdefs.UndefinedSymbolError
	require.ErrorAs(t, err, &undef)
	res, err := l.Run("(def foo 7) foo", lits.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 7., res, 0)
}

func TestContextReuse(t *testing.T) {
	l := newLits(t, lits.Config{})
	ctx, err := l.Context("(def magicNumber 42)", lits.Params{})
	require.NoError(t, err)
	v, ok := ctx.Get("magicNumber")
	require.True(t, ok)
	assert.InDelta(t, 42., v, 0)
	res, err := l.Run("magicNumber", lits.Params{Contexts: []object.Context{ctx}})
	require.NoError(t, err)
	assert.InDelta(t, 42., res, 0)
	// a def in a later run goes to that run's global context, not to ctx.
	_, err = l.Run("(def other 1)", lits.Params{Contexts: []object.Context{ctx}})
	require.NoError(t, err)
	_, found := ctx.Get("other")
	assert.False(t, found)
}

func TestCannotShadowBuiltins(t *testing.T) {
	l := newLits(t, lits.Config{})
	for _, src := range []string{"(def if 1)", "(defn if [] 1)", "(def + 1)", "(defn let [x] x)"} {
		_, err := l.Run(src, lits.Params{})
		var nameErr *errdefs.NameError
		assert.ErrorAs(t, err, &nameErr, src)
	}
}

func TestScopingPrecedence(t *testing.T) {
	l := newLits(t, lits.Config{})
	res, err := l.Run("(def x 1) [(let [x 2] x) x]", lits.Params{})
	require.NoError(t, err)
	assert.Equal(t, []any{2., 1.}, res)
	// contexts before values before builtins.
	host := object.NewContext()
	host.Set("a", "context")
	res, err = l.Run("[a b inc]", lits.Params{
		Contexts: []object.Context{host},
		Values:   map[string]any{"a": "value", "b": "value", "inc": 5},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"context", "value", 5.}, res)
}

func TestLazyValueFreshness(t *testing.T) {
	l := newLits(t, lits.Config{})
	reads := 0
	params := lits.Params{LazyValues: map[string]eval.LazyValue{
		"x": eval.LazyFunc(func() any {
			reads++
			return reads
		}),
	}}
	res, err := l.Run("[x x x]", params)
	require.NoError(t, err)
	assert.Equal(t, []any{1., 2., 3.}, res)
	assert.Equal(t, 3, reads)
}

func TestRoundTripDeterminism(t *testing.T) {
	l := newLits(t, lits.Config{Debug: true})
	src := `(defn f [a & more] (for [x more &let [y (* x 2)] &when (> y a)] y)) #(+ % 1) {:a [1 2]}.a#0`
	first, err := l.GenerateAST(src, lits.Params{})
	require.NoError(t, err)
	second, err := l.GenerateAST(src, lits.Params{})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ASTs differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.String(), second.String())
}

func TestAstCache(t *testing.T) {
	l := newLits(t, lits.Config{AstCacheSize: 1})
	first, err := l.GenerateAST("  (+ 1 2)\n", lits.Params{})
	require.NoError(t, err)
	again, err := l.GenerateAST("(+ 1 2)", lits.Params{})
	require.NoError(t, err)
	assert.Same(t, first, again)
	_, err = l.GenerateAST("(+ 1 3)", lits.Params{})
	require.NoError(t, err)
	assert.False(t, l.Cache().Has("(+ 1 2)"))
	assert.Equal(t, 1, l.Cache().Len())
}

func TestInitialCache(t *testing.T) {
	program := &ast.Program{Body: []ast.Node{&ast.Number{Value: 99}}}
	l := newLits(t, lits.Config{InitialCache: map[string]*ast.Program{" precompiled ": program}})
	assert.Nil(t, l.Cache())
	res, err := l.Run("precompiled", lits.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 99., res, 0)
}

func TestUnboundedCache(t *testing.T) {
	l := newLits(t, lits.Config{AstCacheSize: lits.UnboundedCache})
	for _, src := range []string{"1", "2", "3", "4"} {
		_, err := l.Run(src, lits.Params{})
		require.NoError(t, err)
	}
	assert.Equal(t, 4, l.Cache().Len())
	assert.Equal(t, 0, l.Cache().MaxSize())
}

func TestApply(t *testing.T) {
	l := newLits(t, lits.Config{AstCacheSize: 10})
	fn, err := l.Run("(fn [a b] (- a b))", lits.Params{})
	require.NoError(t, err)
	res, err := l.Apply(fn, []any{10, 4}, lits.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 6., res, 0)
	res, err = l.Apply([]any{"a", "b"}, []any{1}, lits.Params{})
	require.NoError(t, err)
	assert.Equal(t, "b", res)
	res, err = l.Apply(&object.BuiltinFunction{Name: "+"}, []any{1, 2, 3}, lits.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 6., res, 0)
	_, err = l.Apply(true, nil, lits.Params{})
	var notFn *errdefs.NotAFunctionError
	require.ErrorAs(t, err, &notFn)
	assert.Equal(t, "boolean", notFn.TypeName)
}

func TestNativeFunctions(t *testing.T) {
	l := newLits(t, lits.Config{})
	params := lits.Params{NativeFunctions: map[string]*object.NativeFunction{
		"twice": {Fn: func(args ...any) (any, error) {
			return args[0].(float64) * 2, nil
		}},
		"fail": {Fn: func(...any) (any, error) {
			return nil, errors.New("host failure")
		}},
		"if": {Fn: func(...any) (any, error) { return 0, nil }},
		"inc": {Fn: func(...any) (any, error) { return 0, nil }},
	}}
	res, err := l.Run("(twice (inc 20))", params)
	require.NoError(t, err)
	assert.InDelta(t, 42., res, 0)
	res, err = l.Run("(map twice [1 2])", params)
	require.NoError(t, err)
	assert.Equal(t, []any{2., 4.}, res)
	_, err = l.Run("(fail)", params)
	require.EqualError(t, err, "host failure")
}

func TestLoopRecurDoesNotGrowStack(t *testing.T) {
	l := newLits(t, lits.Config{})
	res, err := l.Run(`
(loop [i 0 acc 0]
  (if (< i 1000000)
    (recur (inc i) (+ acc i))
    acc))`, lits.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 499999500000., res, 0)
	res, err = l.Run(`(defn count-down [n] (if (> n 0) (recur (dec n)) "done")) (count-down 200000)`, lits.Params{})
	require.NoError(t, err)
	assert.Equal(t, "done", res)
}

func TestDeepRecursion(t *testing.T) {
	l := newLits(t, lits.Config{MaxDepth: 2000})
	src := `(defn f [n] (if (= n 0) 0 (+ 1 (f (dec n)))))`
	res, err := l.Run(src+" (f 100)", lits.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 100., res, 0)
	_, err = l.Run(src+" (f 100000)", lits.Params{})
	var recursionErr *errdefs.RecursionError
	require.ErrorAs(t, err, &recursionErr)
	assert.Equal(t, 2000, recursionErr.MaxDepth)
	res, err = l.Run(src+` (try (f 100000) (catch e e.message))`, lits.Params{})
	require.NoError(t, err)
	assert.Equal(t, "Maximum depth 2000 exceeded.", res)
}

func TestDefaultMaxDepth(t *testing.T) {
	if testing.Short() {
		t.Skip("deep recursion")
	}
	l := newLits(t, lits.Config{})
	_, err := l.Run(`(defn f [n] (+ 1 (f n))) (f 1)`, lits.Params{})
	var recursionErr *errdefs.RecursionError
	require.ErrorAs(t, err, &recursionErr)
	assert.Equal(t, eval.DefaultMaxDepth, recursionErr.MaxDepth)
}

func TestErrorLocation(t *testing.T) {
	l := newLits(t, lits.Config{Debug: true})
	_, err := l.Run("(+ 1\n   (nope 2))", lits.Params{Filename: "test.lits"})
	require.EqualError(t, err, "UndefinedSymbolError: Undefined symbol 'nope'.\ntest.lits:2:5\n   (nope 2))\n    ^")
	_, err = l.Run("(foo)", lits.Params{GetLocation: func(line, column int) string { return "custom" }})
	var undef *errdefs.UndefinedSymbolError
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, "custom", undef.DebugInfo().Position())
}

func TestTokenizeRegexpShorthand(t *testing.T) {
	l := newLits(t, lits.Config{Debug: true})
	tokens, err := l.Tokenize(`#"Hej"gi`, lits.Params{})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.RegexpShorthand, tokens[0].Kind)
	assert.Equal(t, "Hej", tokens[0].Value)
	assert.Equal(t, token.RegexpOptions{Global: true, IgnoreCase: true}, tokens[0].Options)
}

func TestAccessorCallee(t *testing.T) {
	l := newLits(t, lits.Config{})
	tests := []struct {
		input    string
		expected float64
	}{
		{"(def o {:f inc}) (o.f 1)", 2},
		{"(def xs [inc]) (xs#0 1)", 2},
		{"(def m {:a [dec +]}) (m.a#1 1 2)", 3},
	}
	for _, tt := range tests {
		res, err := l.Run(tt.input, lits.Params{})
		require.NoError(t, err, tt.input)
		assert.InDelta(t, tt.expected, res, 0, tt.input)
	}
}
