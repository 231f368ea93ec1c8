package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when input is not a single valid JSON document.
var ErrInvalidJSON = errors.New("invalid JSON")

// Valid reports whether data is a valid JSON document in UTF-8.
func Valid(data []byte) bool {
	return utf8.Valid(data) && gjson.ValidBytes(data)
}

// Parse decodes data into a Value, keeping object members in document order.
func Parse(data []byte) (Value, error) {
	if !Valid(data) {
		return Null(), ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Raw)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := make([]Value, 0)
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromResult(item))
				return true
			})
			return Value{kind: KindArray, items: items}
		}
		members := make([]Member, 0)
		r.ForEach(func(key, item gjson.Result) bool {
			members = append(members, Member{Key: key.Str, Value: fromResult(item)})
			return true
		})
		return Value{kind: KindObject, members: members}
	default:
		return Null()
	}
}

// MarshalJSON implements json.Marshaler. Time values are written as
// RFC 3339 strings.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		return writeString(buf, v.s)
	case KindTime:
		return writeString(buf, v.t.Format(time.RFC3339))
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsonvalue: unknown kind %d", v.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(quoted)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Decode re-encodes v and unmarshals it into dst, which lets callers move
// from the generic tree to their own structs.
func (v Value) Decode(dst any) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	return nil
}
