// Package value implements the storage value model: a small tagged
// union (Null, Int, Float, Bool, Text, Bytes, List, Map) shared by every
// entry in the keyspace, plus its size accounting and wire rendering.
package value

// Kind identifies which field of a Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindText
	KindBytes
	KindList
	KindMap
)

// MapEntry is one key/value pair of a Map value. Keys are always text;
// order is preserved as received so DUMP and display rendering are
// deterministic for a given input.
type MapEntry struct {
	Key   string
	Value Value
}

// Value is the tagged union stored against every key. Only the field
// matching Kind is meaningful; the rest are zero values.
type Value struct {
	Kind Kind

	Int   int64
	Float float64
	Bool  bool
	Text  string
	Bytes []byte
	List  []Value
	Map   []MapEntry
}

func Null() Value              { return Value{Kind: KindNull} }
func FromInt(n int64) Value    { return Value{Kind: KindInt, Int: n} }
func FromFloat(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func FromBool(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func FromText(s string) Value  { return Value{Kind: KindText, Text: s} }
func FromBytes(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }
func FromList(items []Value) Value { return Value{Kind: KindList, List: items} }
func FromMap(entries []MapEntry) Value { return Value{Kind: KindMap, Map: entries} }

// IsNull reports whether v holds no data.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// TypeName returns the lowercase name of v's type ("int", "text", ...;
// "null" for Null).
func (v Value) TypeName() string {
	switch v.Kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "null"
	}
}
