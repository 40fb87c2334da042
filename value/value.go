// Package value defines the in-memory model for Hessian 2.0 values.
//
// A Value is one of: Null, Bool, Int, Long, Double, Date, Bytes, String,
// Ref, List or Map. Scalar values are immutable once constructed. List and
// Map containers are shared by pointer and change through List.Append and
// Map.Set. Take replaces a value in place with Null so consumers can move
// payloads out of containers without copying.
//
// Values are totally ordered (see Compare) and hashable (see Hash), so they
// can serve as map keys. A Map itself is not usable as a key; see Map.Set.
package value

import "math"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindLong
	KindDouble
	KindDate
	KindBytes
	KindString
	KindRef
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindDate:
		return "date"
	case KindBytes:
		return "binary"
	case KindString:
		return "string"
	case KindRef:
		return "ref"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is the sum type of all representable Hessian values.
//
// The zero Value is Null.
type Value struct {
	kind Kind
	num  uint64 // bool, int, long, date, ref index, double bits
	str  string
	bin  []byte
	list *List
	mp   *Map
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}

	return v
}

// Int returns a 32-bit integer value.
func Int(i int32) Value {
	return Value{kind: KindInt, num: uint64(int64(i))}
}

// Long returns a 64-bit integer value.
func Long(l int64) Value {
	return Value{kind: KindLong, num: uint64(l)}
}

// Double returns a 64-bit float value.
func Double(f float64) Value {
	return Value{kind: KindDouble, num: math.Float64bits(f)}
}

// Date returns a date value holding milliseconds since the Unix epoch.
func Date(millis int64) Value {
	return Value{kind: KindDate, num: uint64(millis)}
}

// Bytes returns a binary value. The slice is owned by the returned value;
// the caller must not modify it afterwards.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, bin: b}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Ref returns a back-reference to the index-th list or map decoded from the
// stream, counting from zero in emission order.
func Ref(index uint32) Value {
	return Value{kind: KindRef, num: uint64(index)}
}

// NewList returns an untyped list value holding the given elements.
func NewList(elems ...Value) Value {
	return Value{kind: KindList, list: &List{elems: elems}}
}

// NewTypedList returns a typed list value with the given type name.
// An empty type name yields an untyped list.
func NewTypedList(typ string, elems ...Value) Value {
	if typ == "" {
		return NewList(elems...)
	}

	return Value{kind: KindList, list: &List{typ: typ, typed: true, elems: elems}}
}

// NewMap returns an empty untyped map value. Populate it through AsMap.
func NewMap() Value {
	return Value{kind: KindMap, mp: &Map{}}
}

// NewTypedMap returns an empty typed map value with the given type name.
// An empty type name yields an untyped map.
func NewTypedMap(typ string) Value {
	if typ == "" {
		return NewMap()
	}

	return Value{kind: KindMap, mp: &Map{typ: typ, typed: true}}
}

// FromList wraps an existing List into a Value.
func FromList(l *List) Value {
	return Value{kind: KindList, list: l}
}

// FromMap wraps an existing Map into a Value.
func FromMap(m *Map) Value {
	return Value{kind: KindMap, mp: m}
}

// Kind returns the variant held by the value.
func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsInt() bool    { return v.kind == KindInt }
func (v Value) IsLong() bool   { return v.kind == KindLong }
func (v Value) IsDouble() bool { return v.kind == KindDouble }
func (v Value) IsDate() bool   { return v.kind == KindDate }
func (v Value) IsBytes() bool  { return v.kind == KindBytes }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsRef() bool    { return v.kind == KindRef }
func (v Value) IsList() bool   { return v.kind == KindList }
func (v Value) IsMap() bool    { return v.kind == KindMap }

// AsBool returns the boolean payload. The second result reports whether the
// value is a Bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}

	return v.num != 0, true
}

// AsInt returns the 32-bit integer payload.
func (v Value) AsInt() (int32, bool) {
	if v.kind != KindInt {
		return 0, false
	}

	return int32(int64(v.num)), true
}

// AsLong returns the 64-bit integer payload.
func (v Value) AsLong() (int64, bool) {
	if v.kind != KindLong {
		return 0, false
	}

	return int64(v.num), true
}

// AsDouble returns the float payload.
func (v Value) AsDouble() (float64, bool) {
	if v.kind != KindDouble {
		return 0, false
	}

	return math.Float64frombits(v.num), true
}

// AsDate returns the millisecond payload of a date value.
func (v Value) AsDate() (int64, bool) {
	if v.kind != KindDate {
		return 0, false
	}

	return int64(v.num), true
}

// AsBytes returns the binary payload. The slice is shared with the value;
// the caller must not modify it.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}

	return v.bin, true
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}

	return v.str, true
}

// AsRef returns the back-reference index.
func (v Value) AsRef() (uint32, bool) {
	if v.kind != KindRef {
		return 0, false
	}

	return uint32(v.num), true
}

// AsList returns the list payload. The returned pointer aliases the value's
// container; mutations through it are visible to every holder.
func (v Value) AsList() (*List, bool) {
	if v.kind != KindList {
		return nil, false
	}

	return v.list, true
}

// AsMap returns the map payload. The returned pointer aliases the value's
// container; mutations through it are visible to every holder.
func (v Value) AsMap() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}

	return v.mp, true
}

// Take moves the value out of its slot, leaving Null behind.
func (v *Value) Take() Value {
	out := *v
	*v = Value{kind: KindNull}

	return out
}
