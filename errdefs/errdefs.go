// Package errdefs holds the error taxonomy of the engine. Every error embeds
// Base which carries a short message and, when available, the debug info of
// the token where it happened. Match them with errors.As.
package errdefs

import (
	"strconv"

	"grol.io/lits/token"
)

// LitsError is implemented by all the engine errors.
type LitsError interface {
	error
	DebugInfo() *token.DebugInfo
	ShortMessage() string
}

type Base struct {
	Message string
	Debug   *token.DebugInfo
}

func (b *Base) DebugInfo() *token.DebugInfo {
	return b.Debug
}

func (b *Base) ShortMessage() string {
	return b.Message
}

func (b *Base) format(kind string) string {
	if b.Debug == nil {
		return kind + ": " + b.Message
	}
	return kind + ": " + b.Message + "\n" + b.Debug.String()
}

// LexError: no tokenizer rule matched, or a literal is malformed.
type LexError struct {
	Base
}

func NewLexError(msg string, d *token.DebugInfo) *LexError {
	return &LexError{Base{Message: msg, Debug: d}}
}

func (e *LexError) Error() string { return e.format("LexError") }

// ParseError: malformed structure in the token stream.
type ParseError struct {
	Base
}

func NewParseError(msg string, tok *token.Token) *ParseError {
	return &ParseError{Base{Message: msg, Debug: tok.Info()}}
}

func (e *ParseError) Error() string { return e.format("ParseError") }

// UndefinedSymbolError: name resolution exhausted every lookup tier.
type UndefinedSymbolError struct {
	Base
	Symbol     string
	Suggestion string // closest known name, may be empty.
}

func NewUndefinedSymbolError(symbol, suggestion string, tok *token.Token) *UndefinedSymbolError {
	msg := "Undefined symbol '" + symbol + "'."
	if suggestion != "" {
		msg += " Did you mean '" + suggestion + "'?"
	}
	return &UndefinedSymbolError{Base: Base{Message: msg, Debug: tok.Info()}, Symbol: symbol, Suggestion: suggestion}
}

func (e *UndefinedSymbolError) Error() string { return e.format("UndefinedSymbolError") }

// NotAFunctionError: the callee value has no call semantics.
type NotAFunctionError struct {
	Base
	TypeName string
}

func NewNotAFunctionError(typeName string, tok *token.Token) *NotAFunctionError {
	return &NotAFunctionError{
		Base:     Base{Message: "Expected function, got " + typeName + ".", Debug: tok.Info()},
		TypeName: typeName,
	}
}

func (e *NotAFunctionError) Error() string { return e.format("NotAFunctionError") }

// RecursionError: evaluation nested deeper than the configured maximum.
type RecursionError struct {
	Base
	MaxDepth int
}

func NewRecursionError(maxDepth int, tok *token.Token) *RecursionError {
	return &RecursionError{
		Base:     Base{Message: "Maximum depth " + strconv.Itoa(maxDepth) + " exceeded.", Debug: tok.Info()},
		MaxDepth: maxDepth,
	}
}

func (e *RecursionError) Error() string { return e.format("RecursionError") }

// ArgumentError: a builtin or function received the wrong number or type of arguments.
type ArgumentError struct {
	Base
}

func NewArgumentError(msg string, tok *token.Token) *ArgumentError {
	return &ArgumentError{Base{Message: msg, Debug: tok.Info()}}
}

func (e *ArgumentError) Error() string { return e.format("ArgumentError") }

// AssertionError is raised by the assert builtin.
type AssertionError struct {
	Base
}

func NewAssertionError(msg string, tok *token.Token) *AssertionError {
	return &AssertionError{Base{Message: msg, Debug: tok.Info()}}
}

func (e *AssertionError) Error() string { return e.format("AssertionError") }

// UserError is raised by the throw builtin.
type UserError struct {
	Base
}

func NewUserError(msg string, tok *token.Token) *UserError {
	return &UserError{Base{Message: msg, Debug: tok.Info()}}
}

func (e *UserError) Error() string { return e.format("UserError") }

// NameError: a definition would shadow a builtin.
type NameError struct {
	Base
	Name string
}

func NewNameError(name, msg string, tok *token.Token) *NameError {
	return &NameError{Base: Base{Message: msg, Debug: tok.Info()}, Name: name}
}

func (e *NameError) Error() string { return e.format("NameError") }
