package httpx

import (
	"context"
	"errors"
	"net"
)

// HTTPStatusCoder is implemented by errors carrying an upstream HTTP status.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusCode extracts the upstream HTTP status from err, or 0.
func StatusCode(err error) int {
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}

// IsTimeout reports whether err is a client-side timeout (deadline exceeded
// or a timing-out net.Error). Remote transforms use a long deadline, so a
// timeout gets its own user-facing message.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
