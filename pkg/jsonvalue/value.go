// Package jsonvalue provides an order-preserving JSON value type.
//
// A Value is a tagged union over the JSON kinds (object, array, string,
// number, bool, null) plus a Time kind used once date fields have been
// normalized. Objects keep their members in document order so a value can
// be written back out with the same shape it was read with.
package jsonvalue

import (
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindTime
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string contents, or the raw literal of a number
	t       time.Time
	items   []Value
	members []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps the literal text of a JSON number. The literal is kept
// verbatim so large integers and exact decimals survive a round trip.
func Number(raw string) Value { return Value{kind: KindNumber, s: raw} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Time wraps a parsed date-time.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Array builds an array from items.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: append([]Value(nil), items...)}
}

// Object builds an object from members, in the given order.
func Object(members ...Member) Value {
	return Value{kind: KindObject, members: append([]Member(nil), members...)}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean held by v, false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Str returns the string held by v, or the raw literal of a number.
func (v Value) Str() string {
	if v.kind == KindString || v.kind == KindNumber {
		return v.s
	}
	return ""
}

// Time returns the time held by v, the zero time for other kinds.
func (v Value) Time() time.Time {
	if v.kind != KindTime {
		return time.Time{}
	}
	return v.t
}

// Len returns the number of items of an array or members of an object.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Index returns the i-th array item, or null when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Null()
	}
	return v.items[i]
}

// Items returns a copy of the array items.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Members returns a copy of the object members in document order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return append([]Member(nil), v.members...)
}

// Get looks up an object member by key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Null(), false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Null(), false
}

// Keys returns the object keys in document order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}
