package token

import "fortio.org/sets"

// Reserved describes the value of a reserved name. Forbidden ones can't be
// used at all and are rejected by the lexer.
type Reserved struct {
	Value     any
	Forbidden bool
}

var reservedNames = map[string]Reserved{
	"true":      {Value: true},
	"false":     {Value: false},
	"nil":       {Value: nil},
	"null":      {Forbidden: true},
	"undefined": {Forbidden: true},
	"===":       {Forbidden: true},
	"!==":       {Forbidden: true},
	"&&":        {Forbidden: true},
	"||":        {Forbidden: true},
}

// LookupReserved returns the reserved entry for name, if any.
func LookupReserved(name string) (Reserved, bool) {
	r, ok := reservedNames[name]
	return r, ok
}

// LitsInfo enables introspection of reserved names and modifiers.
type LitsInfo struct {
	ReservedNames  sets.Set[string]
	ForbiddenNames sets.Set[string]
	Modifiers      sets.Set[string]
}

var info = newInfo()

func newInfo() LitsInfo {
	i := LitsInfo{
		ReservedNames:  sets.New[string](),
		ForbiddenNames: sets.New[string](),
		Modifiers:      sets.New("&", "&let", "&when", "&while"),
	}
	for name, r := range reservedNames {
		if r.Forbidden {
			i.ForbiddenNames.Add(name)
		} else {
			i.ReservedNames.Add(name)
		}
	}
	return i
}

func Info() LitsInfo {
	return info
}
