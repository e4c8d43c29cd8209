package wud

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrCannotConnect classifies transport-level failures (DNS, refused,
	// TLS) against the WUD endpoint.
	ErrCannotConnect = errors.New("cannot connect to WUD")
	// ErrTimeout classifies a request that exceeded its bound.
	ErrTimeout = errors.New("timeout talking to WUD")
)

// StatusError reports a non-2xx response from the WUD API.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// classify wraps a transport error into the taxonomy the callers branch on.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %w", ErrCannotConnect, err)
}
