package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnreachable is returned when no reply could be obtained from the backend.
	ErrBackendUnreachable = errors.New("backend unreachable")
	// ErrBackendTimeout is returned when the call did not finish within the configured timeout.
	ErrBackendTimeout = errors.New("backend timed out")
	// ErrBackendMalformed is returned when the reply is not JSON or carries no generated text.
	ErrBackendMalformed = errors.New("backend returned a malformed response")
	// ErrBackendStatus matches every *HTTPError.
	ErrBackendStatus = errors.New("backend returned an error status")
)

const maxErrorBodyBytes = 2 << 10

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "backend http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("backend http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("backend http error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrBackendStatus
}

func newHTTPError(status int, body []byte) *HTTPError {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return &HTTPError{StatusCode: status, Body: string(body)}
}
