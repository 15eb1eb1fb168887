package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"
)

// Payload wraps raw document bytes, their origin and their encoding.
type Payload struct {
	source Source
	format Format
	raw    []byte
}

// NewPayload constructs a Payload while validating the inputs. The format is
// the one declared on src, or detected from its location and content.
func NewPayload(src Source, raw []byte) (Payload, error) {
	if src == nil {
		return Payload{}, errors.New("document: source is required")
	}
	if len(raw) == 0 {
		return Payload{}, fmt.Errorf("document: %s: raw document is empty", src.Location())
	}
	format := DeclaredFormat(src)
	if format == "" {
		format = DetectFormat(src.Location(), raw)
	}
	clone := append([]byte(nil), raw...)
	return Payload{source: src, format: format, raw: clone}, nil
}

// Format reports the encoding recorded when the payload was built.
func (p Payload) Format() Format {
	return p.format
}

// Source returns the origin metadata for the payload.
func (p Payload) Source() Source {
	return p.source
}

// Raw returns a copy of the payload bytes.
func (p Payload) Raw() []byte {
	return append([]byte(nil), p.raw...)
}

// Location returns the string identifier for the origin.
func (p Payload) Location() string {
	if p.source == nil {
		return ""
	}
	return p.source.Location()
}

// Loader fetches raw form documents. The implementation lives under
// internal/document/loader.
type Loader interface {
	Load(ctx context.Context, src Source) (Payload, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS lookups.
	FileSystem fs.FS

	// HTTPClient enables URL sources with caller-controlled transport.
	HTTPClient *http.Client

	// AllowHTTP enables URL sources with a default client when HTTPClient is
	// nil. URL sources are rejected otherwise.
	AllowHTTP bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS for SourceKindFS lookups.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTP enables URL sources using a default client and the given timeout.
func WithHTTP(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTP = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies a set of LoaderOption values.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Load fetches src through loader and parses it, converting YAML payloads to
// JSON first.
func Load(ctx context.Context, loader Loader, src Source) (Document, error) {
	if loader == nil {
		return Document{}, errors.New("document: loader is nil")
	}
	payload, err := loader.Load(ctx, src)
	if err != nil {
		return Document{}, fmt.Errorf("document: load %s: %w", locationOf(src), err)
	}
	return FromPayload(payload)
}

// FromPayload parses an already loaded payload.
func FromPayload(payload Payload) (Document, error) {
	data, err := Normalize(payload)
	if err != nil {
		return Document{}, err
	}
	return Parse(data)
}

func locationOf(src Source) string {
	if src == nil {
		return "<nil>"
	}
	return src.Location()
}
