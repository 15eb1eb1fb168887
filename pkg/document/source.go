package document

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
)

// Source identifies where a form document comes from. The location doubles
// as the format hint: a .yaml or .yml extension selects YAML unless the
// source declares a format explicitly.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindReader SourceKind = "reader"
)

// source is the concrete Source behind every constructor. reader is only set
// for SourceKindReader; format is empty when the loader should detect it.
type source struct {
	kind     SourceKind
	location string
	format   Format
	reader   io.Reader
}

func (s source) Kind() SourceKind {
	return s.kind
}

func (s source) Location() string {
	return s.location
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS returns a Source identifying a document inside an fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("document: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("document: invalid URL %q: %v", raw, err))
	}
	return source{kind: SourceKindURL, location: raw}
}

// SourceFromReader wraps a stream such as stdin. name labels the source in
// errors and logs. The stream is consumed by the first Load.
func SourceFromReader(name string, r io.Reader) Source {
	if name == "" {
		name = "reader"
	}
	return source{kind: SourceKindReader, location: name, reader: r}
}

// SourceWithFormat returns a copy of src that skips format detection.
// Sources not built by this package are returned unchanged.
func SourceWithFormat(src Source, format Format) Source {
	s, ok := src.(source)
	if !ok {
		return src
	}
	s.format = format
	return s
}

// DeclaredFormat reports the format set with SourceWithFormat, or "".
func DeclaredFormat(src Source) Format {
	if s, ok := src.(source); ok {
		return s.format
	}
	return ""
}

// ReaderOf returns the stream behind a SourceKindReader source.
func ReaderOf(src Source) (io.Reader, bool) {
	s, ok := src.(source)
	if !ok || s.kind != SourceKindReader || s.reader == nil {
		return nil, false
	}
	return s.reader, true
}
