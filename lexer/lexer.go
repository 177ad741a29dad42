// Package lexer turns source text into a flat token stream by trying an
// ordered list of rules at each position. The first rule that matches
// consumes its characters and (maybe) emits a token; when none match the
// lexer fails right away, there is no backtracking across rules.
package lexer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/log"
	"grol.io/lits/errdefs"
	"grol.io/lits/token"
	"grol.io/lits/trie"
)

type Options struct {
	Debug        bool // attach a token.DebugInfo to every token.
	Filename     string
	GetLocation  token.LocationFunc
	KeepComments bool // emit Comment tokens instead of skipping them.
}

// rule returns how many bytes it consumed (0 = no match) and optionally a token.
type rule func(l *Lexer) (int, *token.Token, error)

// Order matters: rules aren't mutually exclusive by their first character
// (reserved vs plain names, #"..." vs #( vs # accessor).
var rules = []rule{
	skipWhitespace,
	lineComment,
	shebangComment,
	tokenizeBracket,
	tokenizeString,
	tokenizeKeywordString,
	tokenizeNumber,
	tokenizeReservedName,
	tokenizeName,
	tokenizeModifier,
	tokenizeRegexpShorthand,
	tokenizeFnShorthand,
	tokenizeCollectionAccessor,
}

var (
	reservedTrie = newTrie(token.Info().ReservedNames, token.Info().ForbiddenNames)
	modifierTrie = newTrie(token.Info().Modifiers)
)

func newTrie(sets ...map[string]struct{}) *trie.Trie {
	t := trie.NewTrie()
	for _, s := range sets {
		for w := range s {
			t.Insert(w)
		}
	}
	return t
}

type Lexer struct {
	input      string
	pos        int
	opts       Options
	lineStarts []int // byte offset of the start of each line, computed on demand.
	// location is picked once at construction: debugInfo in debug mode, a nil returning func otherwise.
	location func(pos int) *token.DebugInfo
	// end of the previous token, -1 if none. Used to only accept collection
	// accessors glued to what precedes them.
	lastTokenEnd int
}

func New(input string, opts Options) *Lexer {
	l := &Lexer{input: input, opts: opts, lastTokenEnd: -1}
	if opts.Debug {
		l.location = l.debugInfo
	} else {
		l.location = func(int) *token.DebugInfo { return nil }
	}
	return l
}

// Tokenize returns all the tokens of source or the first LexError.
func Tokenize(source string, opts Options) ([]*token.Token, error) {
	return New(source, opts).All()
}

func (l *Lexer) All() ([]*token.Token, error) {
	tokens := make([]*token.Token, 0, len(l.input)/3+1)
	for l.pos < len(l.input) {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok != nil {
			tokens = append(tokens, tok)
		}
	}
	log.LogVf("Tokenized %d bytes into %d tokens", len(l.input), len(tokens))
	return tokens, nil
}

func (l *Lexer) next() (*token.Token, error) {
	for _, r := range rules {
		n, tok, err := r(l)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		if tok != nil {
			tok.Debug = l.location(l.pos)
			l.lastTokenEnd = l.pos + n
			if log.LogDebug() {
				log.Debugf("token %s at %d", tok.DebugString(), l.pos)
			}
		}
		l.pos += n
		return tok, nil
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return nil, l.errorf(l.pos, "Unrecognized character '"+string(ch)+"'.")
}

func (l *Lexer) errorf(pos int, msg string) *errdefs.LexError {
	// errors always carry a location, debug mode or not.
	return errdefs.NewLexError(msg, l.debugInfo(pos))
}

func (l *Lexer) debugInfo(pos int) *token.DebugInfo {
	if l.lineStarts == nil {
		l.lineStarts = []int{0}
		for i := range len(l.input) {
			if l.input[i] == '\n' {
				l.lineStarts = append(l.lineStarts, i+1)
			}
		}
	}
	line := sort.Search(len(l.lineStarts), func(i int) bool { return l.lineStarts[i] > pos }) - 1
	start := l.lineStarts[line]
	end := strings.IndexByte(l.input[start:], '\n')
	if end == -1 {
		end = len(l.input)
	} else {
		end += start
	}
	column := utf8.RuneCountInString(l.input[start:pos]) + 1
	return token.NewDebugInfo(l.opts.Filename, strings.TrimSuffix(l.input[start:end], "\r"), line+1, column, l.opts.GetLocation)
}

func (l *Lexer) rest() string {
	return l.input[l.pos:]
}

func isWhiteSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == ','
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

const nameSymbols = "^?=!$%<>+*/-@_"

// IsNameStart reports whether r can start a name.
func IsNameStart(r rune) bool {
	return unicode.IsLetter(r) || strings.ContainsRune(nameSymbols, r)
}

// IsNameChar reports whether r can appear after the first character of a name.
func IsNameChar(r rune) bool {
	return IsNameStart(r) || unicode.IsDigit(r)
}

// nameLength returns the byte length of the run of name characters at the start of s.
func nameLength(s string) int {
	for i, r := range s {
		if !IsNameChar(r) {
			return i
		}
	}
	return len(s)
}

// endsToken is true when nothing that could extend a name/number follows.
func endsToken(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return !IsNameChar(r)
}

func skipWhitespace(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	n := 0
	for n < len(s) && isWhiteSpace(s[n]) {
		n++
	}
	return n, nil, nil
}

func (l *Lexer) comment(n int) (int, *token.Token, error) {
	if !l.opts.KeepComments {
		return n, nil, nil
	}
	return n, &token.Token{Kind: token.Comment, Value: l.input[l.pos : l.pos+n]}, nil
}

func toEOL(s string) int {
	n := strings.IndexByte(s, '\n')
	if n == -1 {
		return len(s)
	}
	return n
}

func lineComment(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	if s[0] != ';' {
		return 0, nil, nil
	}
	return l.comment(toEOL(s))
}

// A #! line is only a comment at the very start of the input.
func shebangComment(l *Lexer) (int, *token.Token, error) {
	if l.pos != 0 || !strings.HasPrefix(l.input, "#!") {
		return 0, nil, nil
	}
	return l.comment(toEOL(l.input))
}

func tokenizeBracket(l *Lexer) (int, *token.Token, error) {
	switch ch := l.rest()[0]; ch {
	case '(', ')', '[', ']', '{', '}':
		return 1, &token.Token{Kind: token.Bracket, Value: string(ch)}, nil
	}
	return 0, nil, nil
}

// Only \" and \\ are escapes, any other backslash is kept as is.
func (l *Lexer) readQuoted(start int) (string, int, error) {
	s := l.input[start:]
	buf := strings.Builder{}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				i++
				buf.WriteByte(s[i])
				continue
			}
		case '"':
			return buf.String(), i + 1, nil
		}
		buf.WriteByte(ch)
	}
	return "", 0, l.errorf(start, "Unclosed string.")
}

func tokenizeString(l *Lexer) (int, *token.Token, error) {
	if l.rest()[0] != '"' {
		return 0, nil, nil
	}
	value, n, err := l.readQuoted(l.pos)
	if err != nil {
		return 0, nil, err
	}
	return n, &token.Token{Kind: token.String, Value: value}, nil
}

// :foo is the same as "foo".
func tokenizeKeywordString(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	if s[0] != ':' {
		return 0, nil, nil
	}
	n := nameLength(s[1:])
	if n == 0 {
		return 0, nil, nil
	}
	return n + 1, &token.Token{Kind: token.String, Value: s[1 : n+1]}, nil
}

func radixDigit(radix byte, ch byte) bool {
	switch radix {
	case 'b':
		return ch == '0' || ch == '1'
	case 'o':
		return '0' <= ch && ch <= '7'
	default: // x
		return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
	}
}

func digits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// tokenizeNumber accepts -?digits(.digits)?(e[+-]?digits)? and -?0[box]digits.
// Bare "." and "-" and radix prefixes without digits don't match.
func tokenizeNumber(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	i := 0
	if s[0] == '-' {
		i++
	}
	if i >= len(s) || !isDigit(s[i]) {
		return 0, nil, nil
	}
	if s[i] == '0' && i+1 < len(s) && strings.IndexByte("box", s[i+1]) >= 0 {
		radix := s[i+1]
		j := i + 2
		for j < len(s) && radixDigit(radix, s[j]) {
			j++
		}
		if j == i+2 || !endsToken(s[j:]) {
			return 0, nil, nil
		}
		return j, &token.Token{Kind: token.Number, Value: s[:j]}, nil
	}
	i = digits(s, i)
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i = digits(s, i+1)
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if k := digits(s, j); k > j {
			i = k
		}
	}
	if !endsToken(s[i:]) {
		return 0, nil, nil
	}
	return i, &token.Token{Kind: token.Number, Value: s[:i]}, nil
}

func tokenizeReservedName(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	n := reservedTrie.LongestMatch(s)
	if n == 0 || !endsToken(s[n:]) {
		return 0, nil, nil
	}
	name := s[:n]
	if r, _ := token.LookupReserved(name); r.Forbidden {
		return 0, nil, l.errorf(l.pos, "Cannot use forbidden name '"+name+"'.")
	}
	return n, &token.Token{Kind: token.ReservedName, Value: name}, nil
}

func tokenizeName(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	r, _ := utf8.DecodeRuneInString(s)
	if !IsNameStart(r) {
		return 0, nil, nil
	}
	n := nameLength(s)
	return n, &token.Token{Kind: token.Name, Value: s[:n]}, nil
}

func tokenizeModifier(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	n := modifierTrie.LongestMatch(s)
	if n == 0 || !endsToken(s[n:]) {
		return 0, nil, nil
	}
	return n, &token.Token{Kind: token.Modifier, Value: s[:n]}, nil
}

// #"pattern"gi - the pattern keeps its backslashes except for \" which is a plain quote.
func tokenizeRegexpShorthand(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	if !strings.HasPrefix(s, `#"`) {
		return 0, nil, nil
	}
	buf := strings.Builder{}
	i := 2
	for ; i < len(s) && s[i] != '"'; i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if s[i+1] != '"' {
				buf.WriteByte('\\')
			}
			i++
		}
		buf.WriteByte(s[i])
	}
	if i >= len(s) {
		return 0, nil, l.errorf(l.pos, "Unclosed regexp shorthand.")
	}
	i++ // closing quote
	tok := &token.Token{Kind: token.RegexpShorthand, Value: buf.String()}
	for ; i < len(s); i++ {
		switch s[i] {
		case 'g':
			if tok.Options.Global {
				return 0, nil, l.errorf(l.pos+i, "Duplicated regexp option 'g'.")
			}
			tok.Options.Global = true
			continue
		case 'i':
			if tok.Options.IgnoreCase {
				return 0, nil, l.errorf(l.pos+i, "Duplicated regexp option 'i'.")
			}
			tok.Options.IgnoreCase = true
			continue
		}
		if !endsToken(s[i:]) {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return 0, nil, l.errorf(l.pos+i, "Invalid regexp option '"+string(r)+"'.")
		}
		break
	}
	return i, tok, nil
}

func tokenizeFnShorthand(l *Lexer) (int, *token.Token, error) {
	if !strings.HasPrefix(l.rest(), "#(") {
		return 0, nil, nil
	}
	return 1, &token.Token{Kind: token.FnShorthand, Value: "#"}, nil
}

// foo.bar and foo#1: the accessor must be glued to the previous token and
// followed by a name (for .) or a digit (for #).
func tokenizeCollectionAccessor(l *Lexer) (int, *token.Token, error) {
	s := l.rest()
	if l.lastTokenEnd != l.pos || len(s) < 2 {
		return 0, nil, nil
	}
	r, _ := utf8.DecodeRuneInString(s[1:])
	switch {
	case s[0] == '.' && IsNameStart(r):
	case s[0] == '#' && isDigit(s[1]):
	default:
		return 0, nil, nil
	}
	return 1, &token.Token{Kind: token.CollectionAccessor, Value: s[:1]}, nil
}
