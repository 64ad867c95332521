package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewHTTPClient はタイムアウトとトランスポート設定を検証します。
func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(2 * time.Second)

	assert.Equal(t, 2*time.Second, c.Timeout)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, maxIdleConnsPerHost, tr.MaxIdleConnsPerHost)
	assert.Equal(t, 2*time.Second, tr.ResponseHeaderTimeout)
	assert.NotNil(t, tr.Proxy)
}

// TestNewHTTPClient_Timeout は応答が遅いサーバーに対してタイムアウトすることを検証します。
func TestNewHTTPClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTPClient(50 * time.Millisecond)
	_, err := c.Get(srv.URL)
	assert.Error(t, err)
}
