package document

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formmarkup/pkg/fieldset"
)

// Document is a parsed form: its name, the identifier submissions are posted
// to, and the field declarations in source order.
type Document struct {
	Name       string
	PostTarget string
	Fields     []*fieldset.FieldSet
}

// ParseString is Parse for callers holding the document as a string.
func ParseString(input string) (Document, error) {
	return Parse([]byte(input))
}

// Parse reads the object under `form`. Duplicate keys resolve as they do
// inside fields: the last value wins. A missing or null `name` or
// `postmessage` yields an empty string; a missing `form` or a `form.items`
// that is not an array of objects fails with ErrMalformedDocument.
func Parse(data []byte) (Document, error) {
	if !json.Valid(data) {
		return Document{}, &MalformedError{Reason: "invalid json"}
	}

	root, err := fieldset.Parse(data)
	if err != nil {
		return Document{}, &MalformedError{Reason: "root must be an object", Err: err}
	}

	formValue, ok := root.Get("form")
	if !ok {
		return Document{}, &MalformedError{Path: "form", Reason: "missing"}
	}
	form, isObject := formValue.Object()
	if !isObject {
		return Document{}, &MalformedError{Path: "form", Reason: fmt.Sprintf("must be an object, got %s", formValue.Kind())}
	}

	name, err := scalar(form, "name")
	if err != nil {
		return Document{}, err
	}
	postTarget, err := scalar(form, "postmessage")
	if err != nil {
		return Document{}, err
	}

	items, ok := form.Get("items")
	if !ok {
		return Document{}, &MalformedError{Path: "form.items", Reason: "missing"}
	}
	entries, isArray := items.Items()
	if !isArray {
		return Document{}, &MalformedError{Path: "form.items", Reason: fmt.Sprintf("must be an array, got %s", items.Kind())}
	}

	fields := make([]*fieldset.FieldSet, 0, len(entries))
	for idx, entry := range entries {
		field, isObject := entry.Object()
		if !isObject {
			return Document{}, &MalformedError{
				Path:   fmt.Sprintf("form.items[%d]", idx),
				Reason: fmt.Sprintf("must be an object, got %s", entry.Kind()),
			}
		}
		fields = append(fields, field)
	}

	return Document{Name: name, PostTarget: postTarget, Fields: fields}, nil
}

func scalar(form *fieldset.FieldSet, key string) (string, error) {
	value, ok := form.Get(key)
	if !ok {
		return "", nil
	}
	switch value.Kind() {
	case fieldset.KindObject, fieldset.KindArray:
		return "", &MalformedError{Path: "form." + key, Reason: fmt.Sprintf("must be a scalar, got %s", value.Kind())}
	default:
		return value.String(), nil
	}
}
