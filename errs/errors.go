// Package errs defines sentinel error values shared across the bookblock
// containers. Callers should test for them with errors.Is.
package errs

import "errors"

var (
	// ErrEmpty is returned by accessors and pop operations that require a
	// non-empty container.
	ErrEmpty = errors.New("container is empty")

	// ErrNotFound reports that no element with the requested id exists.
	// Lookup APIs generally signal absence with an end iterator or a false
	// return; ErrNotFound is for wrappers that need an error value.
	ErrNotFound = errors.New("element not found")
)
