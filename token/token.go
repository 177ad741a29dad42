// Package token defines the tokens produced by the lexer and the
// optional source location (debug info) they carry.
package token

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

type Kind uint8

const (
	Bracket Kind = iota
	String
	Number
	Name
	ReservedName
	Modifier
	RegexpShorthand
	FnShorthand
	CollectionAccessor
	Comment
)

var kindNames = [...]string{
	Bracket:            "Bracket",
	String:             "String",
	Number:             "Number",
	Name:               "Name",
	ReservedName:       "ReservedName",
	Modifier:           "Modifier",
	RegexpShorthand:    "RegexpShorthand",
	FnShorthand:        "FnShorthand",
	CollectionAccessor: "CollectionAccessor",
	Comment:            "Comment",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// RegexpOptions are the flags of a #"..."gi regexp shorthand.
type RegexpOptions struct {
	Global     bool // g
	IgnoreCase bool // i
}

type Token struct {
	Kind    Kind
	Value   string
	Options RegexpOptions // only for RegexpShorthand.
	Debug   *DebugInfo    // nil unless tokenized in debug mode.
}

func (t *Token) Is(kind Kind, value string) bool {
	return t != nil && t.Kind == kind && t.Value == value
}

func (t *Token) DebugString() string {
	return t.Kind.String() + ":" + strconv.Quote(t.Value)
}

// Info returns the debug info of a possibly nil token.
func (t *Token) Info() *DebugInfo {
	if t == nil {
		return nil
	}
	return t.Debug
}

// LocationFunc lets the host render a location its own way (e.g. an editor url).
type LocationFunc func(line, column int) string

// DebugInfo is the location of a token in the source.
type DebugInfo struct {
	Filename   string
	Line       int // 1 based.
	Column     int // 1 based, in runes.
	SourceLine string
	Caret      string // spaces then ^ under the token's first character.
	Location   string // from the host LocationFunc, if any.
}

func NewDebugInfo(filename, sourceLine string, line, column int, getLocation LocationFunc) *DebugInfo {
	d := &DebugInfo{
		Filename:   filename,
		Line:       line,
		Column:     column,
		SourceLine: sourceLine,
		Caret:      caret(sourceLine, column),
	}
	if getLocation != nil {
		d.Location = getLocation(line, column)
	}
	return d
}

// caret uses the display width of what precedes the column so the marker
// lines up under wide (e.g. CJK or emoji) characters.
func caret(sourceLine string, column int) string {
	prefix := sourceLine
	n := 0
	for i := range sourceLine {
		if n == column-1 {
			prefix = sourceLine[:i]
			break
		}
		n++
	}
	return strings.Repeat(" ", uniseg.StringWidth(prefix)) + "^"
}

// Position is the short file:line:column form, or the host provided location.
func (d *DebugInfo) Position() string {
	if d.Location != "" {
		return d.Location
	}
	pos := strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Column)
	if d.Filename != "" {
		return d.Filename + ":" + pos
	}
	return pos
}

func (d *DebugInfo) String() string {
	return d.Position() + "\n" + d.SourceLine + "\n" + d.Caret
}
