package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the encoding from the location extension, falling back
// to sniffing the first non-space byte.
func DetectFormat(location string, raw []byte) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFormat maps a user-supplied name to a Format. The empty string and
// "auto" yield "" so detection stays on.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("document: unknown format %q", name)
	}
}

// Normalize returns the payload as JSON text, converting by the format
// recorded on the payload.
func Normalize(payload Payload) ([]byte, error) {
	switch payload.Format() {
	case FormatYAML:
		return FromYAML(payload.Raw())
	case FormatJSON:
		return payload.Raw(), nil
	default:
		return nil, fmt.Errorf("document: unsupported format %q", payload.Format())
	}
}

// FromYAML converts a YAML document into JSON text, keeping mapping order.
// Quoted scalars stay strings; plain `true` becomes a JSON boolean.
func FromYAML(raw []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &MalformedError{Reason: "invalid yaml", Err: err}
	}
	if root.Kind == 0 {
		return nil, &MalformedError{Reason: "empty yaml document"}
	}

	var buf bytes.Buffer
	if err := writeNode(&buf, &root); err != nil {
		return nil, &MalformedError{Reason: "convert yaml", Err: err}
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNode(buf, node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return fmt.Errorf("line %d: dangling alias", node.Line)
		}
		return writeNode(buf, node.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			writeString(buf, key.Value)
			buf.WriteByte(':')
			if err := writeNode(buf, node.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, child := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		return writeScalar(buf, node)
	default:
		return fmt.Errorf("line %d: unsupported yaml node kind %d", node.Line, node.Kind)
	}
}

func writeScalar(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		buf.WriteString("null")
	case "!!bool":
		value, err := strconv.ParseBool(strings.ToLower(node.Value))
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		buf.WriteString(strconv.FormatBool(value))
	case "!!int", "!!float":
		if json.Valid([]byte(node.Value)) {
			buf.WriteString(node.Value)
			return nil
		}
		// YAML-only spellings (0x1F, .inf, 1_000) survive as strings.
		writeString(buf, node.Value)
	default:
		writeString(buf, node.Value)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	encoded, _ := json.Marshal(s)
	buf.Write(encoded)
}
