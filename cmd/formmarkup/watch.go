package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Recompile a form document whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, args[0], cmd.OutOrStdout(), cfg, logger)
	},
}

// watch compiles path once and again on every write or re-create. Compile
// failures are logged and the watcher keeps running.
func watch(ctx context.Context, path string, w io.Writer, cfg Config, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	sources, err := resolveSources([]string{abs}, nil, cfg)
	if err != nil {
		return err
	}
	src := sources[0]

	rebuild := func() {
		out, err := compileOne(ctx, src, cfg, log)
		if err != nil {
			log.Warn("compile failed", zap.String("source", abs), zap.Error(err))
			return
		}
		if err := emit(w, []string{abs}, []string{out}, cfg.OutputDir); err != nil {
			log.Warn("write failed", zap.String("source", abs), zap.Error(err))
			return
		}
		log.Info("compiled", zap.String("source", abs))
	}

	rebuild()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				rebuild()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
