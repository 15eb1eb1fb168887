package fieldset

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
)

// Kind tags the JSON shape held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindNumber
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one attribute value exactly as authored. Rules pattern-match on
// Kind and pull the payload they expect; everything else can still be
// interpolated through String.
type Value struct {
	kind   Kind
	text   string
	raw    []byte
	object *FieldSet
	items  []Value
}

// Kind reports the tagged shape.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the interpolation text. Strings come back unescaped,
// booleans as True/False, numbers as the authored literal, null as the empty
// string and containers as their raw JSON.
func (v Value) String() string {
	return v.text
}

// Raw returns the JSON text the value was decoded from.
func (v Value) Raw() []byte {
	return v.raw
}

// IsTrue reports whether the value is the exact string "true". A JSON boolean
// true does not qualify.
func (v Value) IsTrue() bool {
	return v.kind == KindString && v.text == "true"
}

// Object returns the nested field set for object values.
func (v Value) Object() (*FieldSet, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.object, true
}

// Items returns the elements of array values.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.items, true
}

// StringValue builds a string Value, mostly useful for tests and callers that
// assemble field sets by hand.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s, raw: []byte(strconv.Quote(s))}
}

// decodeValue converts a jsonparser token into a Value.
func decodeValue(data []byte, typ jsonparser.ValueType) (Value, error) {
	raw := append([]byte(nil), data...)
	switch typ {
	case jsonparser.String:
		raw = append(append([]byte{'"'}, data...), '"')
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return Value{}, fmt.Errorf("fieldset: decode string: %w", err)
		}
		return Value{kind: KindString, text: s, raw: raw}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return Value{}, fmt.Errorf("fieldset: decode boolean: %w", err)
		}
		text := "False"
		if b {
			text = "True"
		}
		return Value{kind: KindBool, text: text, raw: raw}, nil
	case jsonparser.Number:
		return Value{kind: KindNumber, text: string(data), raw: raw}, nil
	case jsonparser.Null:
		return Value{kind: KindNull, raw: raw}, nil
	case jsonparser.Object:
		nested, err := Parse(data)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, text: string(bytes.TrimSpace(data)), raw: raw, object: nested}, nil
	case jsonparser.Array:
		var (
			items   []Value
			itemErr error
		)
		_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			item, err := decodeValue(value, dataType)
			if err != nil {
				itemErr = err
				return
			}
			items = append(items, item)
		})
		if err == nil {
			err = itemErr
		}
		if err != nil {
			return Value{}, fmt.Errorf("fieldset: decode array: %w", err)
		}
		return Value{kind: KindArray, text: string(bytes.TrimSpace(data)), raw: raw, items: items}, nil
	default:
		return Value{}, fmt.Errorf("fieldset: unsupported json token %v", typ)
	}
}

// DecodeValue decodes a standalone JSON value.
func DecodeValue(data []byte) (Value, error) {
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fmt.Errorf("fieldset: decode value: %w", err)
	}
	return decodeValue(value, typ)
}
