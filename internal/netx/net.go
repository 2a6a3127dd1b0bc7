// Package netx holds HTTP transport helpers shared by the API client.
package netx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns an http.Client with an overall request timeout and
// conservative connection pooling for a single backend.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4
	transport.IdleConnTimeout = 90 * time.Second

	return &http.Client{Timeout: timeout, Transport: transport}
}

// IsNetworkError reports whether err came from the transport (dial failure,
// reset, timeout) rather than from an HTTP response.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
