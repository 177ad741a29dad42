package ast_test

import (
	"testing"

	"grol.io/lits/ast"
)

func num(v float64) ast.Node { return &ast.Number{Value: v} }

func name(v string) ast.Node { return &ast.Name{Value: v} }

// (for [x xs &let [y (inc x)] &when y] (try y (catch e 0)))
func sample() ast.Node {
	try := &ast.SpecialExpression{
		Name:   "try",
		Params: []ast.Node{name("y")},
		Aux:    &ast.Catch{ErrorName: "e", Body: num(0)},
	}
	return &ast.SpecialExpression{
		Name:   "for",
		Params: []ast.Node{try},
		Aux: ast.LoopBindings{{
			Binding: &ast.Binding{Name: "x", Value: name("xs")},
			Let: ast.Bindings{{
				Name:  "y",
				Value: &ast.NormalExpression{Name: "inc", Params: []ast.Node{name("x")}},
			}},
			When: name("y"),
		}},
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		node     ast.Node
		expected string
	}{
		{num(1.5), "1.5"},
		{&ast.String{Value: "a\"b"}, `"a\"b"`},
		{&ast.ReservedName{Value: "nil"}, "nil"},
		{&ast.NormalExpression{Name: "+", Params: []ast.Node{num(1), num(2)}}, "(+ 1 2)"},
		{&ast.NormalExpression{
			Callee: &ast.SpecialExpression{
				Name:   "fn",
				Aux:    &ast.Function{Arguments: &ast.FunctionArguments{Mandatory: []string{"a"}, Rest: "r"}},
				Params: []ast.Node{name("a")},
			},
			Params: []ast.Node{num(1)},
		}, "((fn [a & r] a) 1)"},
		{&ast.SpecialExpression{
			Name:   "defn",
			Aux:    &ast.Function{Name: "f", Arguments: &ast.FunctionArguments{}},
			Params: []ast.Node{num(1)},
		}, "(defn f [] 1)"},
		{sample(), "(for [x xs &let [y (inc x)] &when y] (try y (catch e 0)))"},
	}
	for _, tt := range tests {
		if got := tt.node.String(); got != tt.expected {
			t.Errorf("got %q, expected %q", got, tt.expected)
		}
	}
}

func TestProgramString(t *testing.T) {
	p := &ast.Program{}
	if p.String() != "<empty>" {
		t.Errorf("unexpected empty program rendering %q", p.String())
	}
	p.Body = []ast.Node{num(1), name("a")}
	if p.String() != "1\na" {
		t.Errorf("unexpected program rendering %q", p.String())
	}
}

func TestWalk(t *testing.T) {
	var names []string
	ast.Walk(sample(), func(n ast.Node) bool {
		if n, ok := n.(*ast.Name); ok {
			names = append(names, n.Value)
		}
		return true
	})
	expected := []string{"xs", "x", "y", "y"}
	if len(names) != len(expected) {
		t.Fatalf("got %v, expected %v", names, expected)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("got %v, expected %v", names, expected)
			break
		}
	}
	count := 0
	ast.Walk(sample(), func(ast.Node) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("children should be skipped, visited %d nodes", count)
	}
}
