// Package repl reads lits source from strings or streams, evaluates it and
// prints the results. A State keeps the definitions of previous evaluations,
// so successive inputs (files, -c commands) can build on each other.
package repl

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"fortio.org/log"
	"grol.io/lits/lits"
	"grol.io/lits/object"
)

type Options struct {
	ShowParse bool
	ShowEval  bool
	NoColor   bool
	Config    lits.Config
	Params    lits.Params
	// PreInput is called on new states, to add host values and functions.
	PreInput func(*State)
}

// EvalStringOptions returns the options used by EvalString.
func EvalStringOptions() Options {
	return Options{ShowEval: true, NoColor: true}
}

// State is a session: an engine and the global contexts of the previous
// evaluations, newest first.
type State struct {
	Lits     *lits.Lits
	Params   lits.Params
	contexts []object.Context
}

func NewState(options Options) (*State, error) {
	l, err := lits.New(options.Config)
	if err != nil {
		return nil, err
	}
	s := &State{Lits: l, Params: options.Params}
	if options.PreInput != nil {
		options.PreInput(s)
	}
	return s, nil
}

func (s *State) params() lits.Params {
	p := s.Params
	p.Contexts = append(slices.Clone(s.contexts), s.Params.Contexts...)
	return p
}

// Eval evaluates input with the definitions of the previous calls visible.
func (s *State) Eval(input string) (any, error) {
	v, ctx, err := s.Lits.Eval(input, s.params())
	if err != nil {
		return nil, err
	}
	if len(ctx) > 0 {
		s.contexts = slices.Insert(s.contexts, 0, ctx)
	}
	return v, nil
}

// EvalWithContext is Eval bounded by ctx. Evaluation can't be interrupted:
// on timeout or cancellation the error is returned right away while the
// evaluation goroutine runs to completion in the background, so the state
// must not be used anymore.
func (s *State) EvalWithContext(ctx context.Context, input string) (any, error) {
	if ctx.Done() == nil {
		return s.Eval(input)
	}
	type result struct {
		v   any
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := s.Eval(input)
		done <- result{v, err}
	}()
	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		log.Warnf("Evaluation abandoned: %v", ctx.Err())
		return nil, fmt.Errorf("evaluation abandoned: %w", context.Cause(ctx))
	}
}

// EvalString evaluates input in a new state and returns what would be printed.
func EvalString(input string) (string, error) {
	return EvalStringWithOption(context.Background(), EvalStringOptions(), input)
}

func EvalStringWithOption(ctx context.Context, options Options, input string) (string, error) {
	s, err := NewState(options)
	if err != nil {
		return "", err
	}
	out := strings.Builder{}
	err = EvalOne(ctx, s, input, &out, options)
	return out.String(), err
}

// EvalAll reads everything from in and evaluates it as one program.
func EvalAll(ctx context.Context, s *State, in io.Reader, out io.Writer, options Options) error {
	b, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	return EvalOne(ctx, s, string(b), out, options)
}

func EvalOne(ctx context.Context, s *State, what string, out io.Writer, options Options) error {
	if options.ShowParse {
		program, err := s.Lits.GenerateAST(what, s.params())
		if err != nil {
			return err
		}
		fmt.Fprint(out, "== Parse ==> ")
		fmt.Fprintln(out, program.String())
		if options.ShowEval {
			fmt.Fprint(out, "== Eval  ==> ")
		}
	}
	v, err := s.EvalWithContext(ctx, what)
	if err != nil {
		return err
	}
	if !options.ShowEval {
		return nil
	}
	if options.NoColor {
		fmt.Fprintln(out, object.Inspect(v))
		return nil
	}
	fmt.Fprint(out, log.Colors.Green)
	fmt.Fprint(out, object.Inspect(v))
	fmt.Fprintln(out, log.Colors.Reset)
	return nil
}
