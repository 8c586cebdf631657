package endpoint

import (
	"errors"
	"fmt"
)

// FetchError reports a transport failure or a non-success response.
type FetchError struct {
	Method string
	URL    string
	// Status is zero when the request never got a response.
	Status int
	Body   string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: API error (status %d): %s", e.Method, e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: API error (status %d)", e.Method, e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is or wraps a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}
