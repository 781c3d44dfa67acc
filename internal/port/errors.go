package port

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors used across ports.
var (
	ErrEmptyCode       = errors.New("⚠️ Empty Code")
	ErrNotConfigured   = errors.New("API key is not configured: set DEEPSEEK_API_KEY in the environment or .env and restart")
	ErrUnknownLanguage = errors.New("unknown target language")
	ErrMalformedReply  = errors.New("malformed completion response")
)

// TransportError is any failure talking to the completion endpoint:
// connection errors, timeouts, non-2xx statuses and undecodable bodies.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %d %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the call was cut off by a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// IsTransport reports whether err came from the completion endpoint.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
