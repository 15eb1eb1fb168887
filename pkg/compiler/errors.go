package compiler

import (
	"errors"
	"fmt"
)

// ErrUnsupportedElementType is returned when a field's type tag has no rule.
var ErrUnsupportedElementType = errors.New("compiler: unsupported element type")

// UnsupportedTypeError names the field that could not be dispatched.
type UnsupportedTypeError struct {
	Index int
	Type  string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("compiler: field %d has no type", e.Index)
	}
	return fmt.Sprintf("compiler: unsupported element type %q at field %d", e.Type, e.Index)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedElementType
}
