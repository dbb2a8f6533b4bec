package apiclient

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrTransport  = errors.New("transport error")
	ErrHTTPStatus = errors.New("http status error")
	ErrParse      = errors.New("parse error")

	// ErrInvalidRequest and ErrCredentials cover failures before anything
	// is sent: a bad RequestConfig, an unencodable body or a token provider
	// error.
	ErrInvalidRequest = errors.New("invalid request")
	ErrCredentials    = errors.New("resolve credentials")
)

// APIError carries the diagnostic fields common to every failed call.
// StatusCode and StatusText are zero when no response was received.
type APIError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status,omitempty"`
	StatusText string `json:"status_text,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Details returns the common fields.
func (e APIError) Details() APIError { return e }

// detailed is implemented by every error in the taxonomy.
type detailed interface {
	Details() APIError
}

// Logged reports whether err came out of Client.Do, which has already
// handed it to the DiagnosticLogger.
func Logged(err error) bool {
	if _, ok := DetailsOf(err); ok {
		return true
	}
	return errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrCredentials)
}

// DetailsOf extracts the diagnostic fields from err, if it carries them.
func DetailsOf(err error) (APIError, bool) {
	var d detailed
	if errors.As(err, &d) {
		return d.Details(), true
	}
	return APIError{}, false
}

// TransportError means the request could not be sent or the response could not be read.
type TransportError struct {
	APIError
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api transport: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// HTTPStatusError means a response arrived with a status outside 200-299.
type HTTPStatusError struct {
	APIError
	Body []byte
}

func (e *HTTPStatusError) Error() string {
	return e.Message
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrHTTPStatus }

// ParseError means a 2xx body could not be decoded as JSON.
type ParseError struct {
	APIError
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("api parse: %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func newHTTPStatusError(code int, statusText, url string, body []byte) *HTTPStatusError {
	return &HTTPStatusError{
		APIError: APIError{
			Message:    fmt.Sprintf("http error: status %d", code),
			StatusCode: code,
			StatusText: statusText,
			URL:        url,
		},
		Body: body,
	}
}
