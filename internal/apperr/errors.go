// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound means the named asset or app-data slot does not exist.
	ErrNotFound = errors.New("not found")
	// ErrParse means a document was malformed or did not match the expected shape.
	ErrParse = errors.New("parse failure")
	// ErrWrite means serializing or writing a slot failed.
	ErrWrite = errors.New("write failure")
)
