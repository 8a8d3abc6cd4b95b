package eval

import (
	"sort"
	"strconv"
	"strings"

	"zaclang.dev/zac/internal/num"
)

// Kind is the runtime tag of a Value.
type Kind int

// Kinds are declared in comparison order.
const (
	KindString Kind = iota
	KindMap
	KindInt
	KindFunction
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindMap:
		return "Map"
	case KindInt:
		return "Int"
	case KindFunction:
		return "Function"
	case KindBool:
		return "Bool"
	}
	return "Unknown"
}

// Value is a runtime value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	value()
}

// String is a text value.
type String string

// Int is a 128-bit signed integer value.
type Int struct{ num.Int }

// Bool is a boolean value.
type Bool bool

// Callable is the implementation behind a Function value.
type Callable func(e *Evaluator, args []Value) (Value, error)

// Function is a named callable. Two functions are equal when their names are.
type Function struct {
	Name string
	Fn   Callable
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an immutable mapping ordered by key.
type Map struct {
	entries []MapEntry
}

func (String) Kind() Kind   { return KindString }
func (Int) Kind() Kind      { return KindInt }
func (Bool) Kind() Kind     { return KindBool }
func (Function) Kind() Kind { return KindFunction }
func (Map) Kind() Kind      { return KindMap }

func (String) value()   {}
func (Int) value()      {}
func (Bool) value()     {}
func (Function) value() {}
func (Map) value()      {}

// NewInt wraps a num.Int.
func NewInt(n num.Int) Int { return Int{n} }

// IntOf returns the Int value for a machine integer.
func IntOf(n int64) Int { return Int{num.FromInt64(n)} }

// NewMap builds a Map from entries. Later entries win on duplicate keys.
func NewMap(entries ...MapEntry) Map {
	sorted := make([]MapEntry, 0, len(entries))
	for _, ent := range entries {
		i := sort.Search(len(sorted), func(i int) bool {
			return Compare(sorted[i].Key, ent.Key) >= 0
		})
		if i < len(sorted) && Compare(sorted[i].Key, ent.Key) == 0 {
			sorted[i] = ent
			continue
		}
		sorted = append(sorted, MapEntry{})
		copy(sorted[i+1:], sorted[i:])
		sorted[i] = ent
	}
	return Map{entries: sorted}
}

// Len returns the number of entries.
func (m Map) Len() int { return len(m.entries) }

// Entries returns the entries in key order.
func (m Map) Entries() []MapEntry {
	out := make([]MapEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Get looks up key.
func (m Map) Get(key Value) (Value, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return Compare(m.entries[i].Key, key) >= 0
	})
	if i < len(m.entries) && Compare(m.entries[i].Key, key) == 0 {
		return m.entries[i].Value, true
	}
	return nil, false
}

// Equal reports structural equality.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Compare orders values by kind first and then by value.
func Compare(a, b Value) int {
	if ka, kb := a.Kind(), b.Kind(); ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case String:
		return strings.Compare(string(av), string(b.(String)))
	case Int:
		return av.Cmp(b.(Int).Int)
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return 0
		case !bool(av):
			return -1
		}
		return 1
	case Function:
		return strings.Compare(av.Name, b.(Function).Name)
	case Map:
		bm := b.(Map)
		for i := 0; i < len(av.entries) && i < len(bm.entries); i++ {
			if c := Compare(av.entries[i].Key, bm.entries[i].Key); c != 0 {
				return c
			}
			if c := Compare(av.entries[i].Value, bm.entries[i].Value); c != 0 {
				return c
			}
		}
		switch {
		case len(av.entries) < len(bm.entries):
			return -1
		case len(av.entries) > len(bm.entries):
			return 1
		}
		return 0
	}
	return 0
}

// Debug renders a value with its tag, e.g. Int(5) or String("hi").
func Debug(v Value) string {
	var sb strings.Builder
	writeDebug(&sb, v)
	return sb.String()
}

func writeDebug(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case String:
		sb.WriteString("String(")
		sb.WriteString(strconv.Quote(string(v)))
		sb.WriteString(")")
	case Int:
		sb.WriteString("Int(")
		sb.WriteString(v.String())
		sb.WriteString(")")
	case Bool:
		sb.WriteString("Bool(")
		sb.WriteString(strconv.FormatBool(bool(v)))
		sb.WriteString(")")
	case Function:
		sb.WriteString("Function(")
		sb.WriteString(v.Name)
		sb.WriteString(")")
	case Map:
		sb.WriteString("Map(")
		writeMapListing(sb, v)
		sb.WriteString(")")
	}
}

func writeMapListing(sb *strings.Builder, m Map) {
	sb.WriteString("{")
	for i, ent := range m.entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeDebug(sb, ent.Key)
		sb.WriteString(": ")
		writeDebug(sb, ent.Value)
	}
	sb.WriteString("}")
}

// Show renders a value as user-facing text.
func Show(v Value) string {
	switch v := v.(type) {
	case String:
		return string(v)
	case Int:
		return v.String()
	case Bool:
		return strconv.FormatBool(bool(v))
	case Function:
		return "<function>"
	case Map:
		var sb strings.Builder
		writeMapListing(&sb, v)
		return sb.String()
	}
	return ""
}
