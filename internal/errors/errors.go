// internal/errors/errors.go
package errors

import "fmt"

// ErrEmptyHandle is returned when a reference-list row has a profile URL
// from which no handle can be derived.
type ErrEmptyHandle struct {
	URL string
}

func (e *ErrEmptyHandle) Error() string {
	return fmt.Sprintf("empty handle derived from profile URL %q", e.URL)
}

// ErrMissingDID is returned when neither the login response nor a
// handle-resolution call yields a DID for the authenticated account.
type ErrMissingDID struct {
	Handle string
}

func (e *ErrMissingDID) Error() string {
	return fmt.Sprintf("unable to resolve DID for handle %q", e.Handle)
}
