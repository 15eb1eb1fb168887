package formmarkup

import (
	internalLoader "github.com/goliatone/go-formmarkup/internal/document/loader"
	"github.com/goliatone/go-formmarkup/pkg/document"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...document.LoaderOption) document.Loader {
	cfg := document.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
