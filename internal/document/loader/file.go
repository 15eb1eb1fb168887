package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formmarkup/pkg/document"
)

func loadFile(ctx context.Context, src document.Source) ([]byte, error) {
	path := src.Location()
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(files, name)
}

// loadReader drains a SourceKindReader stream. Streams are single-use.
func loadReader(ctx context.Context, src document.Source) ([]byte, error) {
	r, ok := document.ReaderOf(src)
	if !ok {
		return nil, errors.New("loader: reader source has no stream")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readLimited(r)
}
