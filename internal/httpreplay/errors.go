package httpreplay

import (
	"errors"
	"fmt"
)

// ConnectionsDisabledError indicates a request had no recorded
// interaction to replay while real HTTP connections were disabled.
type ConnectionsDisabledError struct {
	// Method is the blocked request's HTTP method.
	Method string

	// URI is the blocked request's full URI.
	URI string
}

// Error implements the error interface.
func (e *ConnectionsDisabledError) Error() string {
	return fmt.Sprintf("real HTTP connections are disabled and no cassette interaction matches %s %s; re-record the cassette or open it with a record mode that allows new requests",
		e.Method, e.URI)
}

// IsConnectionsDisabled returns true if the error is a connections
// disabled error. Uses errors.As to handle wrapped errors, including
// the url.Error wrapper http.Client adds around transport failures.
func IsConnectionsDisabled(err error) bool {
	var ce *ConnectionsDisabledError
	return errors.As(err, &ce)
}

// NewConnectionsDisabledError creates a ConnectionsDisabledError for
// the given request line.
func NewConnectionsDisabledError(method, uri string) *ConnectionsDisabledError {
	return &ConnectionsDisabledError{Method: method, URI: uri}
}
