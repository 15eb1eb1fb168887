// Package testsupport holds fixture and golden-file helpers shared by the
// contract tests. Goldens are rewritten when UPDATE_GOLDENS is set.
package testsupport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmarkup/pkg/document"
)

// MustReadFixture reads a fixture file or fails the test.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// MustLoadDocument reads and parses a form document fixture. YAML fixtures
// are converted first.
func MustLoadDocument(t *testing.T, path string) document.Document {
	t.Helper()

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocument returns a parsed document without requiring testing.T.
func LoadDocument(path string) (document.Document, error) {
	if path == "" {
		return document.Document{}, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	payload, err := document.NewPayload(document.SourceFromFile(path), data)
	if err != nil {
		return document.Document{}, fmt.Errorf("testsupport: new payload: %w", err)
	}
	return document.FromPayload(payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
