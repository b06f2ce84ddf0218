package backendapi

import "fmt"

// ErrorKind classifies upstream fetch failures.
type ErrorKind string

const (
	// KindNetwork means the request could not complete at all.
	KindNetwork ErrorKind = "network"
	// KindStatus means the backend answered with a non-2xx status.
	KindStatus ErrorKind = "http_status"
	// KindApplication means the response carried a status field other than
	// "success", or failed schema validation.
	KindApplication ErrorKind = "application"
	// KindDecode means the payload was not valid JSON for the expected shape.
	KindDecode ErrorKind = "decode"
)

// Error is a classified upstream fetch failure.
type Error struct {
	Kind     ErrorKind
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %s (%s): %v", e.Endpoint, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, endpoint string, err error) *Error {
	return &Error{Kind: kind, Endpoint: endpoint, Err: err}
}
