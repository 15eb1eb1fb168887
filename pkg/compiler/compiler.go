package compiler

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formmarkup/pkg/document"
	"github.com/goliatone/go-formmarkup/pkg/fieldset"
)

// Option customises a Compiler.
type Option func(*Compiler)

// WithRegistry swaps the rule registry, typically one built with
// NewBuiltinRegistry plus custom tags.
func WithRegistry(registry *Registry) Option {
	return func(c *Compiler) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithLogger sets the logger used for per-field debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Compiler renders form documents to markup. It holds no per-call state and
// is safe for concurrent use.
type Compiler struct {
	registry *Registry
	logger   *zap.Logger
}

// New constructs a Compiler backed by the default registry unless overridden.
func New(options ...Option) *Compiler {
	c := &Compiler{
		registry: DefaultRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Registry exposes the registry the compiler dispatches through.
func (c *Compiler) Registry() *Registry {
	return c.registry
}

// Compile parses input and renders it.
func (c *Compiler) Compile(input string) (string, error) {
	return c.CompileBytes([]byte(input))
}

// CompileBytes parses data and renders it.
func (c *Compiler) CompileBytes(data []byte) (string, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return "", err
	}
	return c.CompileDocument(doc)
}

// CompileDocument renders a parsed document. Any field failure aborts the
// whole call; no partial markup is returned.
func (c *Compiler) CompileDocument(doc document.Document) (string, error) {
	var sb strings.Builder
	sb.WriteString(`<form name="`)
	sb.WriteString(doc.Name)
	sb.WriteString(`">`)

	for idx, field := range doc.Fields {
		fragment, err := c.compileField(idx, field)
		if err != nil {
			return "", err
		}
		sb.WriteString(fragment)
	}

	sb.WriteString("\n</form>")

	c.logger.Debug("compiled form",
		zap.String("form", doc.Name),
		zap.Int("fields", len(doc.Fields)),
		zap.Int("bytes", sb.Len()),
	)
	return sb.String(), nil
}

func (c *Compiler) compileField(idx int, field *fieldset.FieldSet) (string, error) {
	tag, ok := field.Get(keyType)
	if !ok {
		return "", &UnsupportedTypeError{Index: idx}
	}
	rule, ok := c.registry.Lookup(tag.String())
	if !ok || tag.Kind() != fieldset.KindString {
		return "", &UnsupportedTypeError{Index: idx, Type: tag.String()}
	}

	fragment, err := rule(field)
	if err != nil {
		var malformed *document.MalformedError
		if errors.As(err, &malformed) {
			malformed.Path = fieldPath(idx, malformed.Path)
			return "", malformed
		}
		return "", fmt.Errorf("compiler: field %d (%s): %w", idx, tag.String(), err)
	}

	c.logger.Debug("compiled field",
		zap.Int("index", idx),
		zap.String("type", tag.String()),
	)
	return fragment, nil
}

func fieldPath(idx int, key string) string {
	path := fmt.Sprintf("form.items[%d]", idx)
	if key == "" {
		return path
	}
	return path + "." + key
}
