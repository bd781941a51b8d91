package backend

import (
	"fmt"
	"net/http"
)

// RemoteError is a non-2xx answer from the backend. Message is the backend's
// own message when it sent one.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// TransportError is a failure to reach the backend or to read its answer
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	re, ok := AsRemote(err)
	return ok && re.StatusCode == http.StatusNotFound
}
