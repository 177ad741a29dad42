package ast

import "fortio.org/log"

// Walk calls f for node and then, depth first, for every node below it,
// including the ones inside special form structures. Children of a node are
// skipped when f returns false.
func Walk(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch node := node.(type) {
	case *NormalExpression:
		Walk(node.Callee, f)
		walkAll(node.Params, f)
	case *SpecialExpression:
		walkAux(node.Aux, f)
		walkAll(node.Params, f)
	case *Number, *String, *Name, *ReservedName, *Comment:
	default:
		log.LogVf("Walk: no children for node type %T", node)
	}
}

func walkAll(nodes []Node, f func(Node) bool) {
	for _, n := range nodes {
		Walk(n, f)
	}
}

func walkBindings(b Bindings, f func(Node) bool) {
	for _, binding := range b {
		Walk(binding.Value, f)
	}
}

func walkAux(aux any, f func(Node) bool) {
	switch aux := aux.(type) {
	case Bindings:
		walkBindings(aux, f)
	case LoopBindings:
		for _, lb := range aux {
			Walk(lb.Binding.Value, f)
			walkBindings(lb.Let, f)
			Walk(lb.When, f)
			Walk(lb.While, f)
		}
	case *Catch:
		Walk(aux.Body, f)
	}
}
