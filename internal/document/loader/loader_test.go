package loader

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-formmarkup/pkg/document"
)

const sample = `{"form":{"name":"f","postmessage":"p","items":[]}}`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(document.NewLoaderOptions())
	payload, err := l.Load(context.Background(), document.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(payload.Raw()) != sample {
		t.Fatalf("payload mismatch: %s", payload.Raw())
	}
	if payload.Location() != filepath.Clean(path) {
		t.Fatalf("location: got %q", payload.Location())
	}
}

func TestLoad_FileHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(document.NewLoaderOptions())
	if _, err := l.Load(ctx, document.SourceFromFile("form.json")); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLoad_FS(t *testing.T) {
	files := fstest.MapFS{
		"forms/contact.json": &fstest.MapFile{Data: []byte(sample)},
	}

	l := New(document.NewLoaderOptions(document.WithFileSystem(files)))
	payload, err := l.Load(context.Background(), document.SourceFromFS("forms/contact.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(payload.Raw()) != sample {
		t.Fatalf("payload mismatch: %s", payload.Raw())
	}

	if _, err := New(document.NewLoaderOptions()).Load(context.Background(), document.SourceFromFS("forms/contact.json")); err == nil {
		t.Fatal("expected error without a filesystem")
	}
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	disabled := New(document.NewLoaderOptions())
	if _, err := disabled.Load(context.Background(), document.SourceFromURL(srv.URL+"/form")); err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected http disabled error, got %v", err)
	}

	l := New(document.NewLoaderOptions(document.WithHTTP(2 * time.Second)))
	payload, err := l.Load(context.Background(), document.SourceFromURL(srv.URL+"/form"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(payload.Raw()) != sample {
		t.Fatalf("payload mismatch: %s", payload.Raw())
	}

	if _, err := l.Load(context.Background(), document.SourceFromURL(srv.URL+"/missing")); err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoad_InjectedClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	l := New(document.NewLoaderOptions(document.WithHTTPClient(srv.Client())))
	if _, err := l.Load(context.Background(), document.SourceFromURL(srv.URL)); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoad_EmptyPayload(t *testing.T) {
	files := fstest.MapFS{"empty.json": &fstest.MapFile{}}
	l := New(document.NewLoaderOptions(document.WithFileSystem(files)))
	if _, err := l.Load(context.Background(), document.SourceFromFS("empty.json")); err == nil {
		t.Fatal("expected empty payload error")
	}
}

func TestLoad_NilSource(t *testing.T) {
	if _, err := New(document.NewLoaderOptions()).Load(context.Background(), nil); err == nil {
		t.Fatal("expected nil source error")
	}
}

func TestLoad_Reader(t *testing.T) {
	l := New(document.NewLoaderOptions())
	src := document.SourceFromReader("stdin", strings.NewReader("form:\n  items: []\n"))

	payload, err := l.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if payload.Location() != "stdin" {
		t.Fatalf("location: got %q", payload.Location())
	}
	if payload.Format() != document.FormatYAML {
		t.Fatalf("format: want yaml, got %q", payload.Format())
	}

	if _, err := l.Load(context.Background(), src); err == nil {
		t.Fatal("expected error on a drained stream")
	}
}

func TestLoad_DeclaredFormatWins(t *testing.T) {
	files := fstest.MapFS{
		"form.txt": &fstest.MapFile{Data: []byte(sample)},
	}
	l := New(document.NewLoaderOptions(document.WithFileSystem(files)))

	payload, err := l.Load(context.Background(), document.SourceWithFormat(document.SourceFromFS("form.txt"), document.FormatYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if payload.Format() != document.FormatYAML {
		t.Fatalf("format: want yaml, got %q", payload.Format())
	}
}

func TestLoad_RejectsOversizedDocuments(t *testing.T) {
	huge := bytes.Repeat([]byte("a"), maxDocumentBytes+1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(huge)
	}))
	defer srv.Close()

	l := New(document.NewLoaderOptions(document.WithHTTP(5 * time.Second)))
	if _, err := l.Load(context.Background(), document.SourceFromURL(srv.URL)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("url: want ErrTooLarge, got %v", err)
	}

	if _, err := l.Load(context.Background(), document.SourceFromReader("stdin", bytes.NewReader(huge))); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("reader: want ErrTooLarge, got %v", err)
	}

	exact := bytes.Repeat([]byte(" "), maxDocumentBytes-len(sample))
	exact = append(exact, sample...)
	if _, err := l.Load(context.Background(), document.SourceFromReader("stdin", bytes.NewReader(exact))); err != nil {
		t.Fatalf("document at the limit should load: %v", err)
	}
}
