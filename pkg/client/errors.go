package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure returned by the client.
type ErrorKind string

const (
	// KindInvalidArgument is an empty or malformed caller-supplied value.
	KindInvalidArgument ErrorKind = "invalid_argument"

	// KindForbidden is a remote 403.
	KindForbidden ErrorKind = "forbidden"

	// KindNotFound is a remote 404, or nothing cached and nothing fetched.
	KindNotFound ErrorKind = "not_found"

	// KindHTTP is any other remote 4xx.
	KindHTTP ErrorKind = "http"

	// KindInternalServer is a remote 5xx.
	KindInternalServer ErrorKind = "internal_server"

	// KindDecode is a freshly fetched body that is not valid JSON, or a
	// payload that does not have the expected shape.
	KindDecode ErrorKind = "decode"

	// KindNetwork is a transport failure before any status was received.
	KindNetwork ErrorKind = "network"
)

// Sentinels matched by errors.Is against an *APIError of the same kind.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrHTTP            = errors.New("http error")
	ErrInternalServer  = errors.New("internal server error")
	ErrDecode          = errors.New("decode error")
	ErrNetwork         = errors.New("network error")
)

// Causes wrapped by specific errors.
var (
	// ErrNothingToShow is wrapped by the NotFound error returned when neither
	// the cache nor the remote produced any data. It is not a remote 404.
	ErrNothingToShow = errors.New("no cached or remote data available")

	// ErrEmptyIdentifier is wrapped when an identifier is empty.
	ErrEmptyIdentifier = errors.New("identifier is empty")

	// ErrMalformedIdentifier is wrapped when an identifier contains
	// characters outside [a-z0-9-].
	ErrMalformedIdentifier = errors.New("identifier contains characters outside [a-z0-9-]")
)

// APIError is the error type returned by every client operation.
type APIError struct {
	Kind       ErrorKind
	StatusCode int    // remote status, 0 when no response was involved
	URL        string // resource URL, when known
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("monbillet %s error", e.Kind)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *APIError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// HTTPStatus returns the status a front-end should answer with when it
// forwards this error to its own caller.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindHTTP:
		if e.StatusCode >= 400 && e.StatusCode < 500 {
			return e.StatusCode
		}
		return http.StatusBadGateway
	case KindNetwork:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindHTTP:
		return ErrHTTP
	case KindInternalServer:
		return ErrInternalServer
	case KindDecode:
		return ErrDecode
	case KindNetwork:
		return ErrNetwork
	default:
		return nil
	}
}

// classifyStatus maps a remote status code to an error kind. Statuses
// below 400 are not errors and yield "".
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindHTTP
	case status >= 500:
		return KindInternalServer
	default:
		return ""
	}
}

// statusMessage builds the message for a failed remote status.
func statusMessage(kind ErrorKind, status int, url string) string {
	switch kind {
	case KindForbidden:
		return fmt.Sprintf("access to resource %s is forbidden", url)
	case KindNotFound:
		return fmt.Sprintf("resource %s not found", url)
	case KindInternalServer:
		return fmt.Sprintf("server error %d trying to access resource %s", status, url)
	default:
		return fmt.Sprintf("error trying to access resource %s, the server responded with %d", url, status)
	}
}

// KindOf returns the kind of err when it is, or wraps, an *APIError.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return "", false
}
