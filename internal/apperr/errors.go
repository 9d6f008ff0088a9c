// Package apperr defines the error kinds shared across Raido layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnreadable   = errors.New("unreadable")
	ErrMissingTopic = errors.New("no level-1 heading")
)

// ParseError reports a failed parse of a single source file. Err is one of
// the sentinel errors above, possibly wrapping an underlying I/O error.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
