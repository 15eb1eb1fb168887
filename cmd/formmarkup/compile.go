package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	formmarkup "github.com/goliatone/go-formmarkup"
	"github.com/goliatone/go-formmarkup/pkg/compiler"
	"github.com/goliatone/go-formmarkup/pkg/document"
)

const stdinSource = "-"

var compileCmd = &cobra.Command{
	Use:   "compile [source...]",
	Short: "Compile form documents (paths, URLs, or - for stdin)",
	Long: `Compile one or more form documents. Sources are file paths or http(s)
URLs; "-" or no source reads stdin. JSON and YAML documents are accepted.
Without --output-dir the markup is written to stdout in argument order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{stdinSource}
		}
		results, err := compileAll(cmd.Context(), args, cmd.InOrStdin(), cfg, logger)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), args, results, cfg.OutputDir)
	},
}

// compileAll compiles every source concurrently, bounded by cfg.Jobs. The
// first failure cancels the remaining work.
func compileAll(ctx context.Context, raws []string, stdin io.Reader, cfg Config, log *zap.Logger) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}

	sources, err := resolveSources(raws, stdin, cfg)
	if err != nil {
		return nil, err
	}

	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}

	results := make([]string, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for idx, src := range sources {
		g.Go(func() error {
			out, err := compileOne(gctx, src, cfg, log)
			if err != nil {
				return fmt.Errorf("%s: %w", raws[idx], err)
			}
			results[idx] = out
			log.Debug("compiled source", zap.String("source", src.Location()), zap.Int("bytes", len(out)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveSources maps arguments to sources before any work starts. stdin may
// appear once; a declared --format applies to every source.
func resolveSources(raws []string, stdin io.Reader, cfg Config) ([]document.Source, error) {
	format, err := document.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	sources := make([]document.Source, 0, len(raws))
	seenStdin := false
	for _, raw := range raws {
		var src document.Source
		if raw == stdinSource {
			if seenStdin {
				return nil, fmt.Errorf("stdin (%q) may only be given once", stdinSource)
			}
			if stdin == nil {
				return nil, fmt.Errorf("stdin is not available")
			}
			seenStdin = true
			src = document.SourceFromReader("stdin", stdin)
		} else {
			src, err = parseSource(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", raw, err)
			}
		}
		if format != "" {
			src = document.SourceWithFormat(src, format)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func compileOne(ctx context.Context, src document.Source, cfg Config, log *zap.Logger) (string, error) {
	loaderOptions := []document.LoaderOption{}
	if cfg.AllowHTTP {
		loaderOptions = append(loaderOptions, document.WithHTTP(cfg.HTTPTimeout))
	}
	return formmarkup.CompileSource(ctx, src,
		formmarkup.WithLoaderOptions(loaderOptions...),
		formmarkup.WithCompilerOptions(compiler.WithLogger(log.Named("compiler"))),
	)
}

func parseSource(raw string) (document.Source, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, fmt.Errorf("empty source")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return safeURLSource(path)
	}
	return document.SourceFromFile(path), nil
}

func safeURLSource(raw string) (src document.Source, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return document.SourceFromURL(raw), nil
}

func emit(w io.Writer, sources, results []string, outputDir string) error {
	if outputDir == "" {
		for _, out := range results {
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for idx, out := range results {
		path := outputPath(outputDir, sources[idx])
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(w, "Form written to %s\n", path)
	}
	return nil
}

// outputPath maps a source to <dir>/<base>.html; stdin becomes form.html.
func outputPath(dir, source string) string {
	if source == stdinSource {
		return filepath.Join(dir, "form.html")
	}
	base := source
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if q := strings.IndexAny(base, "?#"); q >= 0 {
		base = base[:q]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "form"
	}
	return filepath.Join(dir, base+".html")
}
