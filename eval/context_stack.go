package eval

import (
	"slices"
	"sort"

	"fortio.org/log"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"grol.io/lits/errdefs"
	"grol.io/lits/object"
	"grol.io/lits/token"
	"src.elv.sh/pkg/persistent/vector"
)

// LazyValue is a host binding whose value is read on every lookup (never memoized).
type LazyValue interface {
	Read() any
}

// LazyFunc adapts a function to LazyValue.
type LazyFunc func() any

func (f LazyFunc) Read() any {
	return f()
}

// Resolution tells which tier a name was found in.
type Resolution uint8

const (
	Unresolved Resolution = iota
	Bound                 // a context, lazy or eager host value.
	Builtin               // builtin normal expression, usable as a function value.
	Special               // builtin special expression, not a value.
)

// ContextStack is the searched chain of active frames plus the host value
// sources. It is immutable: WithContext returns a new stack sharing the
// frames, while each frame is a mutable map (def writes the global one).
// Lookup order: innermost to outermost context, lazy host values, eager host
// values, builtin normal expressions, builtin special expressions.
type ContextStack struct {
	contexts      vector.Vector // object.Context values, innermost last.
	globalContext object.Context
	values        map[string]any
	lazyValues    map[string]LazyValue
	registry      *Registry
}

// NewContextStack creates a stack where global is searched first, then the
// host contexts in order.
func NewContextStack(
	global object.Context,
	hostContexts []object.Context,
	values map[string]any,
	lazyValues map[string]LazyValue,
	registry *Registry,
) *ContextStack {
	contexts := vector.Empty
	for _, c := range slices.Backward(hostContexts) {
		contexts = contexts.Conj(c)
	}
	contexts = contexts.Conj(global)
	return &ContextStack{
		contexts:      contexts,
		globalContext: global,
		values:        values,
		lazyValues:    lazyValues,
		registry:      registry,
	}
}

// WithContext returns a new stack with frame pushed as the innermost context.
// The global context stays the same.
func (cs *ContextStack) WithContext(frame object.Context) *ContextStack {
	res := *cs
	res.contexts = cs.contexts.Conj(frame)
	return &res
}

func (cs *ContextStack) GlobalContext() object.Context {
	return cs.globalContext
}

func (cs *ContextStack) Registry() *Registry {
	return cs.registry
}

// Depth is the number of contexts (frames) in the stack.
func (cs *ContextStack) Depth() int {
	return cs.contexts.Len()
}

func (cs *ContextStack) context(i int) object.Context {
	c, _ := cs.contexts.Index(i)
	return c.(object.Context)
}

func (cs *ContextStack) lookUpContexts(name string) (*object.Cell, bool) {
	for i := cs.contexts.Len() - 1; i >= 0; i-- {
		if cell, ok := cs.context(i)[name]; ok {
			return cell, true
		}
	}
	return nil, false
}

func (cs *ContextStack) lookUpHost(name string) (any, bool) {
	if lv, ok := cs.lazyValues[name]; ok {
		return object.Normalize(lv.Read()), true
	}
	v, ok := cs.values[name]
	return v, ok
}

// LookUp resolves name through every tier, first match wins. For builtins
// the cell holds a synthesized *object.BuiltinFunction; for special
// expressions the cell is nil.
func (cs *ContextStack) LookUp(name string) (*object.Cell, Resolution) {
	if cell, ok := cs.lookUpContexts(name); ok {
		return cell, Bound
	}
	if v, ok := cs.lookUpHost(name); ok {
		return &object.Cell{Value: v}, Bound
	}
	if cs.registry != nil {
		if _, ok := cs.registry.Normal[name]; ok {
			return &object.Cell{Value: &object.BuiltinFunction{Name: name}}, Builtin
		}
		if _, ok := cs.registry.Special[name]; ok {
			return nil, Special
		}
	}
	return nil, Unresolved
}

// GetValue only looks at bindings (contexts and host values), not builtins.
func (cs *ContextStack) GetValue(name string) (any, bool) {
	if cell, ok := cs.lookUpContexts(name); ok {
		return cell.Value, true
	}
	return cs.lookUpHost(name)
}

// EvaluateName returns the value of name or an UndefinedSymbolError.
func (cs *ContextStack) EvaluateName(name string, tok *token.Token) (any, error) {
	cell, res := cs.LookUp(name)
	switch res {
	case Bound, Builtin:
		return cell.Value, nil
	case Special:
		log.LogVf("special expression %q used as a value", name)
	case Unresolved:
	}
	return nil, cs.Undefined(name, tok)
}

// Undefined returns the UndefinedSymbolError for name, with the closest
// visible name as suggestion.
func (cs *ContextStack) Undefined(name string, tok *token.Token) *errdefs.UndefinedSymbolError {
	return errdefs.NewUndefinedSymbolError(name, closestMatch(name, cs.Names()), tok)
}

// Names returns every name visible from this stack, builtins included.
func (cs *ContextStack) Names() []string {
	var names []string
	for i := range cs.contexts.Len() {
		for n := range cs.context(i) {
			names = append(names, n)
		}
	}
	for n := range cs.lazyValues {
		names = append(names, n)
	}
	for n := range cs.values {
		names = append(names, n)
	}
	if cs.registry != nil {
		for n := range cs.registry.Normal {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// closestMatch prefers names containing name's letters in order (magic ->
// magicNumber), then small edit distances (lenght -> length).
func closestMatch(name string, candidates []string) string {
	if len(name) < 3 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDistance := "", len(name)/3+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}
