// Package formmarkup compiles declarative JSON (or YAML) form documents into
// HTML markup. Compile is the pure entry point; CompileSource adds loading
// from files, fs.FS entries or URLs.
package formmarkup

import (
	"context"
	"errors"

	"github.com/goliatone/go-formmarkup/pkg/compiler"
	"github.com/goliatone/go-formmarkup/pkg/document"
)

// Re-exported error sentinels so callers need a single import.
var (
	ErrMalformedDocument      = document.ErrMalformedDocument
	ErrUnsupportedElementType = compiler.ErrUnsupportedElementType
)

// Document aliases the parsed form document.
type Document = document.Document

// Source aliases the document origin abstraction.
type Source = document.Source

// Compile renders a JSON form document with the built-in rules.
func Compile(input string) (string, error) {
	return compiler.New().Compile(input)
}

// CompileDocument renders an already parsed document with the built-in rules.
func CompileDocument(doc Document) (string, error) {
	return compiler.New().CompileDocument(doc)
}

// Option configures CompileSource.
type Option func(*config)

type config struct {
	loader          document.Loader
	loaderOptions   []document.LoaderOption
	compilerOptions []compiler.Option
}

// WithLoader injects a custom loader; loader options are ignored when set.
func WithLoader(loader document.Loader) Option {
	return func(c *config) {
		c.loader = loader
	}
}

// WithLoaderOptions configures the built-in loader.
func WithLoaderOptions(options ...document.LoaderOption) Option {
	return func(c *config) {
		c.loaderOptions = append(c.loaderOptions, options...)
	}
}

// WithCompilerOptions forwards options to the compiler (custom registry,
// logger).
func WithCompilerOptions(options ...compiler.Option) Option {
	return func(c *config) {
		c.compilerOptions = append(c.compilerOptions, options...)
	}
}

// CompileSource loads src, converts YAML when needed, and renders it.
func CompileSource(ctx context.Context, src Source, options ...Option) (string, error) {
	if ctx == nil {
		return "", errors.New("formmarkup: context is required")
	}
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	loader := cfg.loader
	if loader == nil {
		loader = NewLoader(cfg.loaderOptions...)
	}

	doc, err := document.Load(ctx, loader, src)
	if err != nil {
		return "", err
	}
	return compiler.New(cfg.compilerOptions...).CompileDocument(doc)
}
