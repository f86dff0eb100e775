package cms

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a 404 from the content backend. Accessor methods
// normalise it to an empty list or nil before returning.
var ErrNotFound = errors.New("cms: not found")

// FetchError is any backend failure other than not-found.
type FetchError struct {
	What   string // "posts", "post", "products by category", ...
	Status int    // HTTP status, 0 for transport or decode failures
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s", e.What)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Detail includes the underlying cause; for logs, not for pages.
func (e *FetchError) Detail() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (status %d)", e.Error(), e.Status)
	}
	return fmt.Sprintf("%s (status %d): %v", e.Error(), e.Status, e.Err)
}
