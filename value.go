package gnuplot

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the shape held by a Value.
type Kind uint8

const (
	// KindInvalid is the zero Value: no option value at all.
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindSeq
	KindMap
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "mapping"
	case KindRange:
		return "range"
	default:
		return "invalid"
	}
}

// Value is a gnuplot option value. Values are immutable once built; the
// accessors hand out copies of any nested slices.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    Store
	r    *Range
}

// Range is an inclusive [Begin:End] interval. Bounds are usually numbers but
// text bounds such as "*" (autoscale) are allowed.
type Range struct {
	Begin Value
	End   Value
}

// Pair is one key/value assignment. Option sets are passed around as ordered
// pairs so serialization stays deterministic.
type Pair struct {
	Key   string
	Value Value
}

// KV builds a Pair converting value with ValueOf.
func KV(key string, value any) Pair {
	return Pair{Key: key, Value: ValueOf(value)}
}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func Text(s string) Value { return Value{kind: KindText, s: s} }

// Seq builds a sequence value. The input slice is copied.
func Seq(values ...Value) Value {
	items := make([]Value, len(values))
	copy(items, values)
	return Value{kind: KindSeq, seq: items}
}

// Map builds a mapping value from ordered pairs.
func Map(pairs ...Pair) Value {
	return Value{kind: KindMap, m: NewStore(pairs...)}
}

// MapOf wraps an existing store as a mapping value.
func MapOf(store Store) Value {
	return Value{kind: KindMap, m: store}
}

// RangeOf builds a range value; both bounds go through ValueOf.
func RangeOf(begin, end any) Value {
	return Value{kind: KindRange, r: &Range{Begin: ValueOf(begin), End: ValueOf(end)}}
}

// ValueOf converts a Go value into a Value. Maps with string keys are sorted
// by key since Go maps carry no order; use []Pair or Map to control ordering.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return unsigned(uint64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return unsigned(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return Text(x)
	case Range:
		r := x
		return Value{kind: KindRange, r: &r}
	case *Range:
		if x == nil {
			return Value{}
		}
		r := *x
		return Value{kind: KindRange, r: &r}
	case Store:
		return MapOf(x)
	case Pair:
		return Map(x)
	case []Pair:
		return Map(x...)
	case []Value:
		return Seq(x...)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = ValueOf(item)
		}
		return Value{kind: KindSeq, seq: items}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for key := range x {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		pairs := make([]Pair, len(keys))
		for i, key := range keys {
			pairs[i] = KV(key, x[key])
		}
		return Map(pairs...)
	case fmt.Stringer:
		return Text(x.String())
	}
	return valueOfReflect(reflect.ValueOf(v))
}

func valueOfReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = ValueOf(rv.Index(i).Interface())
		}
		return Value{kind: KindSeq, seq: items}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		pairs := make([]Pair, len(keys))
		for i, key := range keys {
			pairs[i] = KV(key, rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).Interface())
		}
		return Map(pairs...)
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unsigned(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return Text(rv.String())
	}
	return Text(fmt.Sprint(rv.Interface()))
}

// unsigned keeps u an Int when it fits, a Float past math.MaxInt64.
func unsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds anything.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// IsNumeric reports whether v is an int or a float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the numeric value as float64 for both numeric kinds.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Items returns a copy of the elements of a sequence value.
func (v Value) Items() []Value {
	if v.kind != KindSeq {
		return nil
	}
	out := make([]Value, len(v.seq))
	copy(out, v.seq)
	return out
}

// Len is the element count of a sequence or mapping, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSeq:
		return len(v.seq)
	case KindMap:
		return v.m.Len()
	}
	return 0
}

// Store returns the mapping held by v.
func (v Value) Store() (Store, bool) { return v.m, v.kind == KindMap }

func (v Value) Range() (Range, bool) {
	if v.kind != KindRange || v.r == nil {
		return Range{}, false
	}
	return *v.r, true
}

// Equal compares by kind and content. An int never equals a float.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInvalid:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindText:
		return v.s == o.s
	case KindSeq:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(o.m)
	case KindRange:
		a, _ := v.Range()
		b, _ := o.Range()
		return a.Begin.Equal(b.Begin) && a.End.Equal(b.End)
	}
	return false
}

// Native converts v back into plain Go values (bool, int64, float64, string,
// []any, map[string]any). Ranges become map[string]any{"begin", "end"}.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindSeq:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Native()
		}
		return out
	case KindMap:
		return v.m.Snapshot()
	case KindRange:
		r, _ := v.Range()
		return map[string]any{"begin": r.Begin.Native(), "end": r.End.Native()}
	}
	return nil
}

// String is the key-less serialized form.
func (v Value) String() string {
	return SerializeValue(v)
}

// scalarText is the plain textual form of a scalar.
func (v Value) scalarText() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindText:
		return v.s
	}
	return ""
}

// formatFloat keeps integral floats visibly floating point; gnuplot treats 1
// and 1.0 differently in arithmetic.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
