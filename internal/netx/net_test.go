package netx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_AppliesTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	c := NewHTTPClient(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, c.Timeout)

	_, err := c.Get(ts.URL)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	_, err := NewHTTPClient(time.Second).Get(ts.URL)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err), "connection refused is a network error")

	assert.True(t, IsNetworkError(context.DeadlineExceeded))
	assert.False(t, IsNetworkError(errors.New("plain")))
	assert.False(t, IsNetworkError(nil))
}
