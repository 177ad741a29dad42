// Package object defines the runtime values of the language. Values are plain
// Go values so hosts can inject and read them without wrapping:
// nil, bool, float64, string, []any (array), map[string]any (object),
// *RegularExpression and the function types of function.go.
package object

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

type Type uint8

const (
	UNKNOWN Type = iota
	NIL
	BOOLEAN
	NUMBER
	STRING
	ARRAY
	OBJECT
	REGEXP
	FUNC
)

var typeNames = [...]string{
	UNKNOWN: "unknown",
	NIL:     "nil",
	BOOLEAN: "boolean",
	NUMBER:  "number",
	STRING:  "string",
	ARRAY:   "array",
	OBJECT:  "object",
	REGEXP:  "regexp",
	FUNC:    "function",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

func TypeOf(v any) Type {
	switch v.(type) {
	case nil:
		return NIL
	case bool:
		return BOOLEAN
	case float64:
		return NUMBER
	case string:
		return STRING
	case []any:
		return ARRAY
	case map[string]any:
		return OBJECT
	case *RegularExpression:
		return REGEXP
	case Function:
		return FUNC
	default:
		return UNKNOWN
	}
}

// Truthy: nil, false, 0 and "" are falsy, everything else is truthy.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	default:
		return true
	}
}

// ToInt returns the int value of an integral number.
func ToInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	i, err := safecast.Convert[int](f)
	return i, err == nil
}

// Normalize converts host provided values to the language's representation:
// Go integer and float32 types become float64, []T slices and string keyed
// maps are converted recursively. Other values are returned as is.
func Normalize(v any) any {
	switch v := v.(type) {
	case int:
		return toFloat(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return toFloat(v)
	case uint:
		return toFloat(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return toFloat(v)
	case float32:
		return float64(v)
	case []any:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = Normalize(e)
		}
		return res
	case []string:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = e
		}
		return res
	case []float64:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = e
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(v))
		for k, e := range v {
			res[k] = Normalize(e)
		}
		return res
	}
	return v
}

type integer interface {
	~int | ~int64 | ~uint | ~uint64
}

// toFloat keeps the value if it can't be represented exactly (e.g. huge int64) rather than lose precision silently.
func toFloat[T integer](i T) any {
	f, err := safecast.Convert[float64](i)
	if err != nil {
		return i
	}
	return f
}

func Equal(left, right any) bool {
	switch l := left.(type) {
	case []any:
		r, ok := right.([]any)
		return ok && slices.EqualFunc(l, r, Equal)
	case map[string]any:
		r, ok := right.(map[string]any)
		return ok && maps.EqualFunc(l, r, Equal)
	case *RegularExpression:
		r, ok := right.(*RegularExpression)
		return ok && l.Source == r.Source && l.Flags == r.Flags
	case Function:
		return left == right
	}
	if TypeOf(left) == UNKNOWN || TypeOf(right) == UNKNOWN {
		return false
	}
	return left == right
}

// Inspect returns the printable representation of a value, the way it would
// be written in source (strings quoted).
func Inspect(v any) string {
	out := strings.Builder{}
	inspect(&out, v, true)
	return out.String()
}

// String is like Inspect but top level strings aren't quoted (what str does).
func String(v any) string {
	out := strings.Builder{}
	inspect(&out, v, false)
	return out.String()
}

func FormatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func inspect(out *strings.Builder, v any, quote bool) {
	switch v := v.(type) {
	case nil:
		out.WriteString("nil")
	case bool:
		out.WriteString(strconv.FormatBool(v))
	case float64:
		out.WriteString(FormatNumber(v))
	case string:
		if quote {
			out.WriteString(strconv.Quote(v))
		} else {
			out.WriteString(v)
		}
	case []any:
		out.WriteString("[")
		for i, e := range v {
			if i > 0 {
				out.WriteString(" ")
			}
			inspect(out, e, true)
		}
		out.WriteString("]")
	case map[string]any:
		out.WriteString("{")
		for i, k := range slices.Sorted(maps.Keys(v)) {
			if i > 0 {
				out.WriteString(" ")
			}
			out.WriteString(strconv.Quote(k))
			out.WriteString(" ")
			inspect(out, v[k], true)
		}
		out.WriteString("}")
	case *RegularExpression:
		out.WriteString(`#"` + v.Source + `"` + v.Flags)
	case Function:
		out.WriteString("<function " + v.FunctionName() + ">")
	default:
		fmt.Fprintf(out, "<%T>", v)
	}
}
