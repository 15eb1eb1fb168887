package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmarkup/pkg/compiler"
	"github.com/goliatone/go-formmarkup/pkg/document"
)

const (
	jsonForm = `{"form":{"name":"a","items":[{"type":"text","name":"x"}]}}`
	yamlForm = "form:\n  name: b\n  items:\n    - type: button\n      value: go\n"
)

func testConfig() Config {
	return Config{Jobs: 2}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCompileAll_PreservesArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", jsonForm)
	b := writeFile(t, dir, "b.yaml", yamlForm)

	results, err := compileAll(context.Background(), []string{a, stdinSource, b}, strings.NewReader(jsonForm), testConfig(), nil)
	if err != nil {
		t.Fatalf("compile all: %v", err)
	}

	want := []string{
		"<form name=\"a\">\n<input type=\"text\" name=\"x\"></input>\n</form>",
		"<form name=\"a\">\n<input type=\"text\" name=\"x\"></input>\n</form>",
		"<form name=\"b\">\n<button value=\"go\"></button>\n</form>",
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileAll_FailsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", jsonForm)
	bad := writeFile(t, dir, "bad.json", `{"form":{"items":[{"type":"range"}]}}`)

	_, err := compileAll(context.Background(), []string{good, bad}, nil, testConfig(), nil)
	if !errors.Is(err, compiler.ErrUnsupportedElementType) {
		t.Fatalf("want ErrUnsupportedElementType, got %v", err)
	}
	if !strings.Contains(err.Error(), bad) {
		t.Fatalf("error should name the source, got %v", err)
	}
}

func TestCompileAll_MalformedStdin(t *testing.T) {
	_, err := compileAll(context.Background(), []string{stdinSource}, strings.NewReader(`{"nope":1}`), testConfig(), nil)
	if !errors.Is(err, document.ErrMalformedDocument) {
		t.Fatalf("want ErrMalformedDocument, got %v", err)
	}
}

func TestCompileAll_ClampsJobs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", jsonForm)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := compileAll(ctx, []string{a, a}, nil, Config{Jobs: 0}, nil)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("compile all: %v", err)
		}
	case <-ctx.Done():
		t.Fatal("compile all did not finish with jobs=0")
	}
}

func TestCompileAll_RejectsRepeatedStdin(t *testing.T) {
	_, err := compileAll(context.Background(), []string{stdinSource, stdinSource}, strings.NewReader(jsonForm), testConfig(), nil)
	if err == nil || !strings.Contains(err.Error(), "only be given once") {
		t.Fatalf("want repeated stdin error, got %v", err)
	}
}

func TestCompileAll_StdinUnavailable(t *testing.T) {
	_, err := compileAll(context.Background(), []string{stdinSource}, nil, testConfig(), nil)
	if err == nil || !strings.Contains(err.Error(), "stdin is not available") {
		t.Fatalf("want stdin unavailable error, got %v", err)
	}
}

func TestCompileAll_YAMLOnStdin(t *testing.T) {
	results, err := compileAll(context.Background(), []string{stdinSource}, strings.NewReader(yamlForm), testConfig(), nil)
	if err != nil {
		t.Fatalf("compile all: %v", err)
	}
	want := []string{"<form name=\"b\">\n<button value=\"go\"></button>\n</form>"}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileAll_DeclaredFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "form.json", yamlForm)

	cfg := testConfig()
	cfg.Format = "yaml"
	results, err := compileAll(context.Background(), []string{path}, nil, cfg, nil)
	if err != nil {
		t.Fatalf("compile all: %v", err)
	}
	if !strings.HasPrefix(results[0], `<form name="b">`) {
		t.Fatalf("unexpected markup %q", results[0])
	}

	cfg.Format = "toml"
	if _, err := compileAll(context.Background(), []string{path}, nil, cfg, nil); err == nil {
		t.Fatal("want error for unknown format")
	}
}

func TestParseSource(t *testing.T) {
	src, err := parseSource("https://example.com/forms/a.json")
	if err != nil || src.Kind() != document.SourceKindURL {
		t.Fatalf("url source: %v %v", src, err)
	}
	src, err = parseSource("forms/../forms/a.json")
	if err != nil || src.Kind() != document.SourceKindFile || src.Location() != filepath.Clean("forms/a.json") {
		t.Fatalf("file source: %v %v", src, err)
	}
	if _, err := parseSource("  "); err == nil {
		t.Fatal("expected error for empty source")
	}
	if _, err := parseSource("http://exa mple.com/a.json"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

func TestOutputPath(t *testing.T) {
	cases := map[string]string{
		stdinSource:                             "form.html",
		"forms/contact.json":                    "contact.html",
		"forms/contact.form.yaml":               "contact.form.html",
		"https://example.com/f/signup.json?v=1": "signup.html",
		"https://example.com/":                  "form.html",
	}
	for source, want := range cases {
		if got := outputPath("out", source); got != filepath.Join("out", want) {
			t.Fatalf("%s: want %s, got %s", source, filepath.Join("out", want), got)
		}
	}
}

func TestEmit_OutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var buf bytes.Buffer
	if err := emit(&buf, []string{"a.json"}, []string{"<form name=\"a\">\n</form>"}, dir); err != nil {
		t.Fatalf("emit: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.html"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "<form name=\"a\">\n</form>" {
		t.Fatalf("unexpected output: %q", data)
	}
	if !strings.Contains(buf.String(), "Form written to") {
		t.Fatalf("missing confirmation: %q", buf.String())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_CompilesOnStartAndOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", jsonForm)

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, out, testConfig(), nil)
	}()

	waitFor := func(substr string) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if strings.Contains(out.String(), substr) {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		t.Fatalf("timed out waiting for %q, got %q", substr, out.String())
	}

	waitFor(`<form name="a">`)
	// Keep rewriting until the watcher observes a write event.
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), `<form name="c">`) && time.Now().Before(deadline) {
		writeFile(t, dir, "a.json", strings.Replace(jsonForm, `"name":"a"`, `"name":"c"`, 1))
		time.Sleep(100 * time.Millisecond)
	}
	waitFor(`<form name="c">`)

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}
