package extensions_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"grol.io/lits/extensions"
	"grol.io/lits/lits"
)

func TestExtensions(t *testing.T) {
	out := strings.Builder{}
	l, err := lits.New(lits.Config{})
	require.NoError(t, err)
	params := lits.Params{
		Values:          extensions.Values(),
		NativeFunctions: extensions.NativeFunctions(&extensions.Config{Out: &out}),
	}
	tests := []struct {
		input    string
		expected any
	}{
		{"(pow 2 10)", 1024.},
		{"(sqrt 16)", 4.},
		{"(round (* PI 100))", 314.},
		{"(abs -3)", 3.},
		{"(round (ln E))", 1.},
		{`(sprintf "%d items, %s, %.2f" 3 "ok" 1.5)`, "3 items, ok, 1.50"},
		{"(map sqrt [1 4 9])", []any{1., 2., 3.}},
	}
	for _, tt := range tests {
		res, err := l.Run(tt.input, params)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, res, tt.input)
	}
	res, err := l.Run(`(println "a" 1 [2]) (print "b")`, params)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "a 1 [2]\nb", out.String())
}

func TestExtensionErrors(t *testing.T) {
	l, err := lits.New(lits.Config{})
	require.NoError(t, err)
	params := lits.Params{NativeFunctions: extensions.NativeFunctions(nil)}
	_, err = l.Run(`(sqrt "x")`, params)
	require.EqualError(t, err, "sqrt: argument 1 is a string, not a number")
	_, err = l.Run("(pow 1)", params)
	require.EqualError(t, err, "pow: expected 2 arguments, got 1")
	_, err = l.Run("(sprintf 1)", params)
	require.EqualError(t, err, "sprintf: format is a number, not a string")
}
