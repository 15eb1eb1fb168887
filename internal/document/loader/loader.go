package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goliatone/go-formmarkup/pkg/document"
)

// maxDocumentBytes bounds reads from streams and remote sources.
const maxDocumentBytes = 8 << 20

// ErrTooLarge is returned when a stream or response exceeds maxDocumentBytes.
var ErrTooLarge = errors.New("loader: document exceeds size limit")

// fetchFunc reads the raw bytes for one source kind.
type fetchFunc func(ctx context.Context, src document.Source) ([]byte, error)

// Loader implements document.Loader. Each source kind maps to a fetcher;
// kinds left out by the options fail with a message naming the missing
// option.
type Loader struct {
	fetchers map[document.SourceKind]fetchFunc
}

var _ document.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options document.LoaderOptions) *Loader {
	l := &Loader{
		fetchers: map[document.SourceKind]fetchFunc{
			document.SourceKindFile:   loadFile,
			document.SourceKindReader: loadReader,
		},
	}

	if options.FileSystem != nil {
		files := options.FileSystem
		l.fetchers[document.SourceKindFS] = func(ctx context.Context, src document.Source) ([]byte, error) {
			return loadFromFS(ctx, files, src.Location())
		}
	}

	var client *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		client = &clone
	case options.AllowHTTP:
		client = &http.Client{Timeout: options.RequestTimeout}
	}
	if client != nil {
		timeout := options.RequestTimeout
		l.fetchers[document.SourceKindURL] = func(ctx context.Context, src document.Source) ([]byte, error) {
			return loadHTTP(ctx, client, src.Location(), timeout)
		}
	}

	return l
}

// Load fetches the source and wraps it in a Payload carrying its format.
func (l *Loader) Load(ctx context.Context, src document.Source) (document.Payload, error) {
	if src == nil {
		return document.Payload{}, errors.New("loader: source is nil")
	}

	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		switch src.Kind() {
		case document.SourceKindURL:
			return document.Payload{}, errors.New("loader: http support disabled")
		case document.SourceKindFS:
			return document.Payload{}, fmt.Errorf("loader: %s: no filesystem configured", src.Location())
		default:
			return document.Payload{}, fmt.Errorf("loader: unsupported source kind %q", src.Kind())
		}
	}

	data, err := fetch(ctx, src)
	if err != nil {
		return document.Payload{}, err
	}
	return document.NewPayload(src, data)
}

// readLimited reads r fully, failing rather than truncating when it holds
// more than maxDocumentBytes.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
