package errdefs_test

import (
	"errors"
	"fmt"
	"testing"

	"grol.io/lits/errdefs"
	"grol.io/lits/token"
)

func TestErrorFormatting(t *testing.T) {
	tok := &token.Token{Kind: token.Name, Value: "b", Debug: token.NewDebugInfo("f.lits", "(+ a b)", 1, 6, nil)}
	err := errdefs.NewUndefinedSymbolError("b", "", tok)
	expected := "UndefinedSymbolError: Undefined symbol 'b'.\nf.lits:1:6\n(+ a b)\n     ^"
	if err.Error() != expected {
		t.Errorf("got:\n%s\nwant:\n%s", err.Error(), expected)
	}
	noDebug := errdefs.NewNotAFunctionError("number", &token.Token{Kind: token.Number, Value: "1"})
	if noDebug.Error() != "NotAFunctionError: Expected function, got number." {
		t.Errorf("unexpected message %q", noDebug.Error())
	}
	if noDebug.DebugInfo() != nil {
		t.Errorf("expected no debug info")
	}
}

func TestErrorsAs(t *testing.T) {
	var err error = fmt.Errorf("wrapped: %w", errdefs.NewUndefinedSymbolError("magik", "magic", nil))
	var undefined *errdefs.UndefinedSymbolError
	if !errors.As(err, &undefined) {
		t.Fatalf("expected UndefinedSymbolError in %v", err)
	}
	if undefined.Symbol != "magik" || undefined.Suggestion != "magic" {
		t.Errorf("unexpected %+v", undefined)
	}
	var litsErr errdefs.LitsError
	if !errors.As(err, &litsErr) {
		t.Fatalf("expected LitsError in %v", err)
	}
	if litsErr.ShortMessage() != "Undefined symbol 'magik'. Did you mean 'magic'?" {
		t.Errorf("unexpected short message %q", litsErr.ShortMessage())
	}
}
