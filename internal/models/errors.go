package models

import (
	"errors"
	"fmt"
)

// ErrUnparseable marks input that cannot be read as a statement document.
var ErrUnparseable = errors.New("unparseable document")

// UnparseableError locates the part of the input that could not be read.
type UnparseableError struct {
	Path   string
	Reason string
}

func (e *UnparseableError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrUnparseable, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrUnparseable, e.Path, e.Reason)
}

func (e *UnparseableError) Unwrap() error {
	return ErrUnparseable
}
