package lexer_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"grol.io/lits/errdefs"
	"grol.io/lits/lexer"
	"grol.io/lits/token"
)

type tk struct {
	Kind  token.Kind
	Value string
}

func kinds(tokens []*token.Token) []tk {
	res := make([]tk, 0, len(tokens))
	for _, t := range tokens {
		res = append(res, tk{t.Kind, t.Value})
	}
	return res
}

func TestTokenize(t *testing.T) {
	input := `(defn add [a b & rest] (+ a b)) ; a comment
[1, -2 3.5 0xff 0b101 0o17 1e3] {:a "x\"y\\z\n"}
(nil? nil) true false <= even? - -x
foo#1.a#2 #(+ %1 %) &let &when &while
héllo`
	expected := []tk{
		{token.Bracket, "("},
		{token.Name, "defn"},
		{token.Name, "add"},
		{token.Bracket, "["},
		{token.Name, "a"},
		{token.Name, "b"},
		{token.Modifier, "&"},
		{token.Name, "rest"},
		{token.Bracket, "]"},
		{token.Bracket, "("},
		{token.Name, "+"},
		{token.Name, "a"},
		{token.Name, "b"},
		{token.Bracket, ")"},
		{token.Bracket, ")"},
		{token.Bracket, "["},
		{token.Number, "1"},
		{token.Number, "-2"},
		{token.Number, "3.5"},
		{token.Number, "0xff"},
		{token.Number, "0b101"},
		{token.Number, "0o17"},
		{token.Number, "1e3"},
		{token.Bracket, "]"},
		{token.Bracket, "{"},
		{token.String, "a"},
		{token.String, `x"y\z\n`},
		{token.Bracket, "}"},
		{token.Bracket, "("},
		{token.Name, "nil?"},
		{token.ReservedName, "nil"},
		{token.Bracket, ")"},
		{token.ReservedName, "true"},
		{token.ReservedName, "false"},
		{token.Name, "<="},
		{token.Name, "even?"},
		{token.Name, "-"},
		{token.Name, "-x"},
		{token.Name, "foo"},
		{token.CollectionAccessor, "#"},
		{token.Number, "1"},
		{token.CollectionAccessor, "."},
		{token.Name, "a"},
		{token.CollectionAccessor, "#"},
		{token.Number, "2"},
		{token.FnShorthand, "#"},
		{token.Bracket, "("},
		{token.Name, "+"},
		{token.Name, "%1"},
		{token.Name, "%"},
		{token.Bracket, ")"},
		{token.Modifier, "&let"},
		{token.Modifier, "&when"},
		{token.Modifier, "&while"},
		{token.Name, "héllo"},
	}
	tokens, err := lexer.Tokenize(input, lexer.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(expected, kinds(tokens)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	for _, tok := range tokens {
		if tok.Debug != nil {
			t.Fatalf("debug info should only be set in debug mode: %v", tok.DebugString())
		}
	}
}

func TestRegexpShorthand(t *testing.T) {
	tokens, err := lexer.Tokenize(`#"Hej"gi`, lexer.Options{Debug: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d: %v", len(tokens), kinds(tokens))
	}
	tok := tokens[0]
	if tok.Kind != token.RegexpShorthand || tok.Value != "Hej" {
		t.Errorf("unexpected token %s", tok.DebugString())
	}
	if !tok.Options.Global || !tok.Options.IgnoreCase {
		t.Errorf("expected g and i options, got %+v", tok.Options)
	}
	if tok.Debug == nil || tok.Debug.Line != 1 || tok.Debug.Column != 1 {
		t.Errorf("unexpected debug info %+v", tok.Debug)
	}
	tokens, err = lexer.Tokenize(`#"a\"b\d"`, lexer.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Value != `a"b\d` || tokens[0].Options != (token.RegexpOptions{}) {
		t.Errorf("unexpected token %s %+v", tokens[0].DebugString(), tokens[0].Options)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input  string
		line   int
		column int
	}{
		{`#"Hej"gg`, 1, 8},
		{`#"Hej"ix`, 1, 8},
		{`"unclosed`, 1, 1},
		{"(a)\n  (null)", 2, 4},
		{"undefined", 1, 1},
		{"(&& a b)", 1, 2},
		{"0x", 1, 1},
		{"1a", 1, 1},
		{":", 1, 1},
		{"#1", 1, 1},
		{"a ~", 1, 3},
	}
	for _, tt := range tests {
		_, err := lexer.Tokenize(tt.input, lexer.Options{})
		var lexErr *errdefs.LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("%q: expected LexError, got %v", tt.input, err)
			continue
		}
		d := lexErr.DebugInfo()
		if d == nil || d.Line != tt.line || d.Column != tt.column {
			t.Errorf("%q: expected error at %d:%d, got %+v", tt.input, tt.line, tt.column, d)
		}
	}
}

func TestDebugInfo(t *testing.T) {
	input := "(+ 1\n   日本 x)"
	tokens, err := lexer.Tokenize(input, lexer.Options{
		Debug:    true,
		Filename: "test.lits",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x := tokens[4]
	if x.Value != "x" {
		t.Fatalf("unexpected token %s", x.DebugString())
	}
	want := &token.DebugInfo{
		Filename:   "test.lits",
		Line:       2,
		Column:     7,
		SourceLine: "   日本 x",
		Caret:      "        ^", // 日本 is 4 columns wide.
	}
	if diff := cmp.Diff(want, x.Debug); diff != "" {
		t.Errorf("debug info mismatch (-want +got):\n%s", diff)
	}
	if got := x.Debug.String(); got != "test.lits:2:7\n   日本 x\n        ^" {
		t.Errorf("unexpected String(): %q", got)
	}
}

func TestGetLocationAndComments(t *testing.T) {
	tokens, err := lexer.Tokenize("#!/usr/bin/env lits\n; hello\nfoo", lexer.Options{
		Debug:        true,
		KeepComments: true,
		GetLocation:  func(line, column int) string { return "here" },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []tk{
		{token.Comment, "#!/usr/bin/env lits"},
		{token.Comment, "; hello"},
		{token.Name, "foo"},
	}
	if diff := cmp.Diff(expected, kinds(tokens)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if tokens[2].Debug.Position() != "here" {
		t.Errorf("expected host location, got %q", tokens[2].Debug.Position())
	}
}
