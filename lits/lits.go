// Package lits is the engine facade: it tokenizes, parses (through the AST
// cache) and evaluates programs against a fresh context stack built from the
// host parameters.
//
// A Lits instance is not safe for concurrent use; use one per goroutine.
package lits

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"fortio.org/log"
	"grol.io/lits/ast"
	"grol.io/lits/builtin"
	"grol.io/lits/cache"
	"grol.io/lits/eval"
	"grol.io/lits/lexer"
	"grol.io/lits/object"
	"grol.io/lits/parser"
	"grol.io/lits/token"
)

// UnboundedCache is the AstCacheSize for a cache that never evicts.
const UnboundedCache = -1

type Config struct {
	AstCacheSize int // 0 disables the cache, UnboundedCache for no eviction.
	// Programs known in advance, keyed by source. They are always found,
	// even with the cache disabled, and never evicted.
	InitialCache map[string]*ast.Program
	Debug        bool // attach debug info (location, source line, caret) to tokens and errors.
	MaxDepth     int  // 0 means eval.DefaultMaxDepth.
}

// Params are the per call host inputs.
type Params struct {
	// Searched in order, before the global context of the run.
	Contexts        []object.Context
	Values          map[string]any
	LazyValues      map[string]eval.LazyValue
	NativeFunctions map[string]*object.NativeFunction
	Filename        string
	GetLocation     token.LocationFunc
}

type Lits struct {
	config   Config
	cache    *cache.Cache // nil when disabled.
	initial  map[string]*ast.Program
	registry *eval.Registry
	grammar  parser.Grammar
}

func New(config Config) (*Lits, error) {
	l := &Lits{
		config:   config,
		registry: builtin.Registry(),
		initial:  make(map[string]*ast.Program, len(config.InitialCache)),
	}
	l.grammar = l.registry.Grammar()
	if config.AstCacheSize != 0 {
		size := float64(config.AstCacheSize)
		if config.AstCacheSize == UnboundedCache {
			size = math.Inf(1)
		}
		c, err := cache.New(size)
		if err != nil {
			return nil, err
		}
		l.cache = c
	}
	for _, src := range slices.Sorted(maps.Keys(config.InitialCache)) {
		l.initial[strings.TrimSpace(src)] = config.InitialCache[src]
	}
	log.LogVf("lits engine created, cache size %d, %d initial programs", config.AstCacheSize, len(l.initial))
	return l, nil
}

// Cache returns the AST cache, nil when disabled.
func (l *Lits) Cache() *cache.Cache {
	return l.cache
}

// Run evaluates source and returns the value of its last expression.
func (l *Lits) Run(source string, params Params) (any, error) {
	v, _, err := l.Eval(source, params)
	return v, err
}

// Context evaluates source and returns the resulting global bindings, which
// can be passed in Params.Contexts of later calls.
func (l *Lits) Context(source string, params Params) (object.Context, error) {
	_, ctx, err := l.Eval(source, params)
	return ctx, err
}

// Eval is Run and Context at once: it returns the value of the last
// expression and the global context of the run.
func (l *Lits) Eval(source string, params Params) (any, object.Context, error) {
	program, err := l.GenerateAST(source, params)
	if err != nil {
		return nil, nil, err
	}
	cs := l.createContextStack(params)
	v, err := l.evaluate(program, cs)
	if err != nil {
		return nil, nil, err
	}
	return v, cs.GlobalContext(), nil
}

const applyName = "FN_APPLY"

// Apply calls fn (any callable value) with args through the same call path
// as (fn arg0 arg1 ...) in a program.
func (l *Lits) Apply(fn any, args []any, params Params) (any, error) {
	values := make(map[string]any, len(params.Values)+len(args)+1)
	maps.Copy(values, params.Values)
	values[applyName] = fn
	src := strings.Builder{}
	src.WriteString("(" + applyName)
	for i, a := range args {
		name := applyName + "_" + strconv.Itoa(i)
		values[name] = a
		src.WriteString(" " + name)
	}
	src.WriteString(")")
	params.Values = values
	return l.Run(src.String(), params)
}

// GenerateAST returns the program for the trimmed source, from the cache when
// possible, otherwise tokenizing and parsing it (and caching the result).
func (l *Lits) GenerateAST(source string, params Params) (*ast.Program, error) {
	source = strings.TrimSpace(source)
	if program, ok := l.initial[source]; ok {
		return program, nil
	}
	if l.cache != nil {
		if program, ok := l.cache.Get(source); ok {
			log.Debugf("AST cache hit for %q", source)
			return program, nil
		}
	}
	tokens, err := l.Tokenize(source, params)
	if err != nil {
		return nil, err
	}
	program, err := l.Parse(tokens)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		if err = l.cache.Set(source, program); err != nil {
			return nil, err
		}
	}
	return program, nil
}

func (l *Lits) Tokenize(source string, params Params) ([]*token.Token, error) {
	return lexer.Tokenize(source, lexer.Options{
		Debug:       l.config.Debug,
		Filename:    params.Filename,
		GetLocation: params.GetLocation,
	})
}

func (l *Lits) Parse(tokens []*token.Token) (*ast.Program, error) {
	return parser.Parse(tokens, l.grammar)
}

func (l *Lits) evaluate(program *ast.Program, cs *eval.ContextStack) (any, error) {
	e := eval.New(l.registry)
	if l.config.MaxDepth > 0 {
		e.MaxDepth = l.config.MaxDepth
	}
	return e.Evaluate(program, cs)
}

// createContextStack always starts with a new global context so def never
// writes into a host provided one.
func (l *Lits) createContextStack(params Params) *eval.ContextStack {
	values := make(map[string]any, len(params.Values)+len(params.NativeFunctions))
	for name, v := range params.Values {
		values[name] = object.Normalize(v)
	}
	for name, fn := range params.NativeFunctions {
		if l.registry.IsBuiltin(name) {
			log.Warnf("Native function %q ignored, it would shadow a builtin", name)
			continue
		}
		nf := *fn
		if nf.Name == "" {
			nf.Name = name
		}
		values[name] = &nf
	}
	return eval.NewContextStack(object.NewContext(), params.Contexts, values, params.LazyValues, l.registry)
}
