package remote

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks requests refused locally before anything was sent
// (no file chosen, unreadable file, empty source).
var ErrPrecondition = errors.New("precondition failed")

// MalformedResponse is the RejectedError message used when a successful
// HTTP response carries a body that does not decode.
const MalformedResponse = "malformed response from the server"

// TransportError is a network failure, or an error response that could not
// be decoded. The server may or may not have seen the request.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: transport: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError is a well-formed response whose status was not "success".
type RejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rejected (http %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: rejected: %s", e.Op, e.Message)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRejected reports whether err is (or wraps) a RejectedError.
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}
