package repl_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"grol.io/lits/errdefs"
	"grol.io/lits/object"
	"grol.io/lits/repl"
)

func TestEvalString(t *testing.T) {
	s := `
; factorial, with an accumulator.
(defn fact [n acc]
  (if (<= n 1)
    acc
    (recur (dec n) (* n acc))))
{:result (fact 5 1) :list [1 "two" nil]}`
	expected := `{"list" [1 "two" nil] "result" 120}` + "\n"
	got, err := repl.EvalString(s)
	if err != nil || got != expected {
		t.Errorf("EvalString() got %v\n---\n%s\n---want---\n%s\n---", err, got, expected)
	}
}

func TestEvalStringLargeNumber(t *testing.T) {
	s := `(defn fact [n] (if (<= n 1) 1 (* n (fact (dec n))))) (fact 20)`
	expected := "2432902008176640000\n"
	if got, err := repl.EvalString(s); got != expected || err != nil {
		t.Errorf("EvalString() got %v\n---\n%s\n---want---\n%s\n---", err, got, expected)
	}
}

func TestEvalStringErrors(t *testing.T) {
	res, err := repl.EvalString(`	  (+ 1`)
	var parseErr *errdefs.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected a parse error, got %v", err)
	}
	if res != "" {
		t.Errorf("expected no output, got %q", res)
	}
	_, err = repl.EvalString("y")
	if err == nil || err.Error() != "UndefinedSymbolError: Undefined symbol 'y'." {
		t.Errorf("unexpected error %q", err)
	}
}

func TestShowParse(t *testing.T) {
	opts := repl.EvalStringOptions()
	opts.ShowParse = true
	res, err := repl.EvalStringWithOption(context.Background(), opts, `{:a 1}.x`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "== Parse ==> (get (object \"a\" 1) \"x\")\n== Eval  ==> nil\n"
	if res != expected {
		t.Errorf("got %q, expected %q", res, expected)
	}
}

func TestStateKeepsDefinitions(t *testing.T) {
	s, err := repl.NewState(repl.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, input := range []string{"(def a 1)", "(def b (+ a 1))", "(defn add-b [x] (+ x b))", "(def a 10)"} {
		if _, err = s.Eval(input); err != nil {
			t.Fatalf("%s: unexpected error: %v", input, err)
		}
	}
	v, err := s.Eval("(add-b a)")
	if err != nil || v != 12. {
		t.Errorf("expected 12, got %v %v", v, err)
	}
}

func TestPreInputHook(t *testing.T) {
	opts := repl.EvalStringOptions()
	opts.PreInput = func(s *repl.State) {
		s.Params.NativeFunctions = map[string]*object.NativeFunction{
			"testHook": {Fn: func(...any) (any, error) { return 42, nil }},
		}
	}
	res, err := repl.EvalStringWithOption(context.Background(), opts, "(testHook)")
	if res != "42\n" || err != nil {
		t.Errorf("got %v %q", err, res)
	}
}

func TestEvalAll(t *testing.T) {
	s, err := repl.NewState(repl.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := strings.Builder{}
	opts := repl.Options{ShowEval: true, NoColor: true}
	err = repl.EvalAll(context.Background(), s, strings.NewReader("(def x 3)\n(* x x)\n"), &out, opts)
	if err != nil || out.String() != "9\n" {
		t.Errorf("got %v %q", err, out.String())
	}
}

func TestTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := repl.EvalStringWithOption(ctx, repl.EvalStringOptions(), "(loop [i 0] (if (< i 1e8) (recur (inc i)) i))")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
