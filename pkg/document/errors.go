package document

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument is the sentinel behind every parse failure: invalid
// JSON, a missing `form` object, or a `form.items` member that is not an
// array of objects.
var ErrMalformedDocument = errors.New("document: malformed document")

// MalformedError locates a parse failure inside the document.
type MalformedError struct {
	// Path is a dotted location such as "form.items[2]"; empty for
	// whole-document failures.
	Path   string
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	msg := "document: malformed document"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrMalformedDocument so callers can use errors.Is.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedDocument
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Malformed builds a MalformedError; rules use it for shape failures found
// while rendering a field.
func Malformed(path string, err error, format string, args ...any) error {
	return &MalformedError{Path: path, Reason: fmt.Sprintf(format, args...), Err: err}
}
