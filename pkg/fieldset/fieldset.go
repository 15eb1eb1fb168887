package fieldset

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrShape reports a value whose JSON shape does not match what the caller
// asked for (for example an object where an array was expected).
var ErrShape = errors.New("fieldset: unexpected value shape")

// ShapeError names the offending key and the shapes involved.
type ShapeError struct {
	Key  string
	Want string
	Got  Kind
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("fieldset: %q must be %s, got %s", e.Key, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// FieldSet is an ordered attribute bag: one field declaration with the key
// order of its source object. It is never mutated after Parse returns.
type FieldSet struct {
	attrs *orderedmap.OrderedMap[string, Value]
}

// Parse builds a FieldSet from a JSON object, keeping member order. A key
// that appears twice keeps its first position and its last value.
func Parse(data []byte) (*FieldSet, error) {
	_, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("fieldset: parse: %w", err)
	}
	if typ != jsonparser.Object {
		return nil, fmt.Errorf("fieldset: parse: expected object, got %v", typ)
	}

	set := &FieldSet{attrs: orderedmap.New[string, Value]()}
	err = jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		decoded, err := decodeValue(value, dataType)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		set.attrs.Set(string(key), decoded)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fieldset: parse: %w", err)
	}
	return set, nil
}

// Pair is one key/value entry, used to assemble field sets by hand.
type Pair struct {
	Key   string
	Value Value
}

// FromPairs builds a FieldSet from explicit pairs in the given order.
func FromPairs(pairs ...Pair) *FieldSet {
	set := &FieldSet{attrs: orderedmap.New[string, Value]()}
	for _, pair := range pairs {
		set.attrs.Set(pair.Key, pair.Value)
	}
	return set
}

// Len returns the number of attributes.
func (s *FieldSet) Len() int {
	if s == nil || s.attrs == nil {
		return 0
	}
	return s.attrs.Len()
}

// Has reports whether key was declared, whatever its value.
func (s *FieldSet) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Get returns the value stored under key.
func (s *FieldSet) Get(key string) (Value, bool) {
	if s == nil || s.attrs == nil {
		return Value{}, false
	}
	return s.attrs.Get(key)
}

// String returns the interpolation text of key, or "" when absent.
func (s *FieldSet) String(key string) string {
	value, _ := s.Get(key)
	return value.String()
}

// Keys lists attribute names in declaration order.
func (s *FieldSet) Keys() []string {
	keys := make([]string, 0, s.Len())
	s.Each(func(key string, _ Value) {
		keys = append(keys, key)
	})
	return keys
}

// Each visits every attribute in declaration order.
func (s *FieldSet) Each(fn func(key string, value Value)) {
	if s == nil || s.attrs == nil || fn == nil {
		return
	}
	for pair := s.attrs.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Object returns the nested object stored under key. ok is false when the
// key is absent; a present key holding anything but an object is a
// ShapeError.
func (s *FieldSet) Object(key string) (nested *FieldSet, ok bool, err error) {
	value, found := s.Get(key)
	if !found {
		return nil, false, nil
	}
	nested, isObject := value.Object()
	if !isObject {
		return nil, true, &ShapeError{Key: key, Want: "an object", Got: value.Kind()}
	}
	return nested, true, nil
}

// Objects returns the array of objects stored under key. An absent key
// yields an empty slice.
func (s *FieldSet) Objects(key string) ([]*FieldSet, error) {
	value, found := s.Get(key)
	if !found {
		return nil, nil
	}
	items, isArray := value.Items()
	if !isArray {
		return nil, &ShapeError{Key: key, Want: "an array of objects", Got: value.Kind()}
	}
	out := make([]*FieldSet, 0, len(items))
	for idx, item := range items {
		nested, isObject := item.Object()
		if !isObject {
			return nil, &ShapeError{Key: fmt.Sprintf("%s[%d]", key, idx), Want: "an object", Got: item.Kind()}
		}
		out = append(out, nested)
	}
	return out, nil
}
