package compiler

import (
	"strings"

	"github.com/goliatone/go-formmarkup/pkg/document"
	"github.com/goliatone/go-formmarkup/pkg/fieldset"
)

const (
	keyType            = "type"
	keyLabel           = "label"
	keyValidationRules = "validationRules"
	keyClass           = "class"
	keyMessage         = "message"
	keyOptions         = "options"
	keyItems           = "items"
	keyValue           = "value"
	keyText            = "text"

	flagDisabled = "disabled"
	flagRequired = "required"
	flagChecked  = "checked"
	flagSelected = "selected"
)

// attrPolicy controls the shared attribute loop: skipped keys never render,
// flag keys render bare when their value is the exact string "true".
type attrPolicy struct {
	skip  []string
	flags []string
}

func (p attrPolicy) skips(key string) bool {
	for _, k := range p.skip {
		if k == key {
			return true
		}
	}
	return false
}

func (p attrPolicy) flag(key string) bool {
	for _, k := range p.flags {
		if k == key {
			return true
		}
	}
	return false
}

// writeAttributes renders every attribute in declaration order, each with a
// leading space. When validationRules is present it takes over the type
// attribute at its own position.
func writeAttributes(sb *strings.Builder, field *fieldset.FieldSet, policy attrPolicy) error {
	overridden := field.Has(keyValidationRules)

	var err error
	field.Each(func(key string, value fieldset.Value) {
		if err != nil {
			return
		}
		switch {
		case key == keyType && overridden:
		case policy.skips(key):
		case policy.flag(key):
			if value.IsTrue() {
				sb.WriteString(" ")
				sb.WriteString(key)
			}
		case key == keyValidationRules:
			rules, ok := value.Object()
			if !ok {
				err = document.Malformed(keyValidationRules, nil, "must be an object, got %s", value.Kind())
				return
			}
			writePair(sb, keyType, rules.String(keyType))
		default:
			writePair(sb, key, value.String())
		}
	})
	return err
}

func writePair(sb *strings.Builder, key, value string) {
	sb.WriteString(" ")
	sb.WriteString(key)
	sb.WriteString(`="`)
	sb.WriteString(value)
	sb.WriteString(`"`)
}

func writeLabel(sb *strings.Builder, field *fieldset.FieldSet) {
	if !field.Has(keyLabel) {
		return
	}
	sb.WriteString("\n<label>")
	sb.WriteString(field.String(keyLabel))
	sb.WriteString("</label>")
}

// controlRule builds the rule shared by text, textarea and checkbox: an
// optional label followed by one element carrying every attribute.
func controlRule(tag string, flags ...string) Rule {
	policy := attrPolicy{skip: []string{keyLabel}, flags: flags}
	return func(field *fieldset.FieldSet) (string, error) {
		var sb strings.Builder
		writeLabel(&sb, field)
		sb.WriteString("\n<")
		sb.WriteString(tag)
		if err := writeAttributes(&sb, field, policy); err != nil {
			return "", err
		}
		sb.WriteString("></")
		sb.WriteString(tag)
		sb.WriteString(">")
		return sb.String(), nil
	}
}

func renderFiller(field *fieldset.FieldSet) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n<div")
	if field.Has(keyClass) {
		writePair(&sb, keyClass, field.String(keyClass))
	}
	sb.WriteString(">\n")
	sb.WriteString(field.String(keyMessage))
	sb.WriteString("\n</div>")
	return sb.String(), nil
}

// renderButton drops only the type key. disabled and required are plain
// attributes here, unlike every other control.
func renderButton(field *fieldset.FieldSet) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n<button")
	field.Each(func(key string, value fieldset.Value) {
		if key == keyType {
			return
		}
		writePair(&sb, key, value.String())
	})
	sb.WriteString("></button>")
	return sb.String(), nil
}

func renderSelect(field *fieldset.FieldSet) (string, error) {
	options, err := field.Objects(keyOptions)
	if err != nil {
		return "", document.Malformed(keyOptions, err, "invalid options")
	}

	var sb strings.Builder
	writeLabel(&sb, field)
	sb.WriteString("\n<select")
	policy := attrPolicy{
		skip:  []string{keyLabel, keyOptions},
		flags: []string{flagDisabled, flagRequired},
	}
	if err := writeAttributes(&sb, field, policy); err != nil {
		return "", err
	}
	sb.WriteString(">\n")

	for _, option := range options {
		sb.WriteString(`<option value="`)
		sb.WriteString(option.String(keyValue))
		sb.WriteString(`" `)
		if flag, _ := option.Get(flagSelected); flag.IsTrue() {
			sb.WriteString(flagSelected)
		}
		sb.WriteString(">")
		sb.WriteString(option.String(keyText))
		sb.WriteString("</option>\n")
	}

	sb.WriteString("</select>")
	return sb.String(), nil
}

// renderRadio emits one input per entry of items, all sharing the attributes
// computed from the rest of the field. The field label, when present, comes
// first; each input is followed by its own label.
func renderRadio(field *fieldset.FieldSet) (string, error) {
	items, err := field.Objects(keyItems)
	if err != nil {
		return "", document.Malformed(keyItems, err, "invalid items")
	}

	var shared strings.Builder
	policy := attrPolicy{
		skip:  []string{keyLabel, keyItems},
		flags: []string{flagDisabled, flagRequired},
	}
	if err := writeAttributes(&shared, field, policy); err != nil {
		return "", err
	}
	attrs := shared.String()

	var sb strings.Builder
	writeLabel(&sb, field)
	for _, item := range items {
		sb.WriteString("\n<input ")
		sb.WriteString(attrs)
		sb.WriteString(` value="`)
		sb.WriteString(item.String(keyValue))
		sb.WriteString(`" `)
		if flag, _ := item.Get(flagChecked); flag.IsTrue() {
			sb.WriteString(flagChecked)
		}
		sb.WriteString("></input>")
		sb.WriteString("\n<label>")
		sb.WriteString(item.String(keyLabel))
		sb.WriteString("</label>")
	}
	return sb.String(), nil
}
